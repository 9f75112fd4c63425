// cmd/tools/review-applications/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	commonaws "job-board/internal/common/aws"
	"job-board/internal/common/config"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	listapplications "job-board/internal/workers/application/list-applications"
	notifyapplicant "job-board/internal/workers/application/notify-applicant"
	updateapplicationstatus "job-board/internal/workers/application/update-application-status"
)

func main() {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	setCmd := flag.NewFlagSet("set", flag.ExitOnError)

	listJob := listCmd.String("job", "", "Only applications for this job ID")
	listStatus := listCmd.String("status", "", "Only applications with this status (pending, approved, rejected)")

	setID := setCmd.String("id", "", "Application ID")
	setStatus := setCmd.String("status", "", "New status (pending, approved, rejected)")
	setNotes := setCmd.String("notes", "", "Admin notes; empty clears them")
	setJob := setCmd.String("job", "", "Job ID the application belongs to, narrows the loaded list")
	reviewer := setCmd.String("reviewer", os.Getenv("USER"), "Reviewer recorded on the event")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		app, err := connect()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer app.close()

		board, err := app.load(*listJob)
		if err != nil {
			fmt.Printf("Error loading applications: %v\n", err)
			os.Exit(1)
		}
		printApplications(os.Stdout, filterStatus(board.Applications(), models.ApplicationStatus(*listStatus)))

	case "set":
		setCmd.Parse(os.Args[2:])
		if *setID == "" || *setStatus == "" {
			fmt.Println("Error: id and status are required for set.")
			setCmd.Usage()
			os.Exit(1)
		}
		app, err := connect()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer app.close()

		board, err := app.load(*setJob)
		if err != nil {
			fmt.Printf("Error loading applications: %v\n", err)
			os.Exit(1)
		}

		out, err := review(app.ctx, board, &updateapplicationstatus.Input{
			ApplicationID: *setID,
			Status:        models.ApplicationStatus(*setStatus),
			AdminNotes:    *setNotes,
			ReviewedBy:    *reviewer,
		})
		if err != nil {
			fmt.Printf("Error updating application: %v\n", err)
			os.Exit(1)
		}
		if out.StatusChanged {
			fmt.Printf("Application %s: %s -> %s\n", out.ApplicationID, out.PreviousStatus, out.Status)
		} else {
			fmt.Printf("Application %s already %s, review time refreshed\n", out.ApplicationID, out.Status)
		}
		if updated, ok := board.Get(out.ApplicationID); ok {
			printApplications(os.Stdout, []models.Application{updated})
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

type app struct {
	ctx     context.Context
	cancel  context.CancelFunc
	pg      *database.PostgresClient
	broker  *events.RabbitMQ
	list    *listapplications.Handler
	updater *updateapplicationstatus.Handler
}

// connect opens Postgres and, when configured, the event broker so that
// review events still reach the notification consumer. Without a broker
// the applicant is notified in process.
func connect() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	log := logger.NewStructured("warn", "console")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		cancel()
		pg.Close()
		return nil, fmt.Errorf("postgres unavailable: %w", err)
	}

	a := &app{ctx: ctx, cancel: cancel, pg: pg}

	var publisher events.Publisher
	if url := cfg.Messaging.RabbitMQ.URL; url != "" {
		broker, err := events.NewRabbitMQ(url, cfg.Messaging.RabbitMQ.Exchange, cfg.Messaging.RabbitMQ.Queue, log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.broker = broker
		publisher = broker
	} else {
		var sesClient commonaws.SESService
		var snsClient commonaws.SNSService
		if cfg.Notifications.Email.Enabled {
			c, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				a.close()
				return nil, fmt.Errorf("ses client: %w", err)
			}
			sesClient = c
		}
		if cfg.Notifications.SMS.Enabled {
			c, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				a.close()
				return nil, fmt.Errorf("sns client: %w", err)
			}
			snsClient = c
		}
		publisher = localPublisher(cfg, pg.DB, sesClient, snsClient, log)
	}

	wcfg := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(cfg, taskType) }
	a.list = listapplications.NewHandler(listapplications.LoadConfig(wcfg(listapplications.TaskType)), pg.DB, log)
	a.updater = updateapplicationstatus.NewHandler(
		updateapplicationstatus.LoadConfig(wcfg(updateapplicationstatus.TaskType)), pg.DB, publisher, log)
	return a, nil
}

// localPublisher dispatches review events straight to the applicant notifier.
func localPublisher(cfg *config.Config, db *sql.DB, sesClient commonaws.SESService, snsClient commonaws.SNSService, log logger.Logger) *events.Dispatcher {
	d := events.NewDispatcher(log)
	notify := notifyapplicant.NewHandler(
		notifyapplicant.LoadConfig(cfg.Notifications, config.GetWorkerConfig(cfg, notifyapplicant.TaskType)),
		db, sesClient, snsClient, log)
	d.On(events.ApplicationReviewed, notify.HandleEvent)
	return d
}

func (a *app) load(jobID string) (*updateapplicationstatus.ReviewBoard, error) {
	out, err := a.list.Execute(a.ctx, &listapplications.Input{JobID: jobID})
	if err != nil {
		return nil, err
	}
	return updateapplicationstatus.NewReviewBoard(a.updater, out.Applications), nil
}

func (a *app) close() {
	if a.broker != nil {
		a.broker.Close()
	}
	a.pg.Close()
	a.cancel()
}

func review(ctx context.Context, board *updateapplicationstatus.ReviewBoard, input *updateapplicationstatus.Input) (*updateapplicationstatus.Output, error) {
	if !input.Status.Valid() {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("status must be one of %v", models.ApplicationStatuses))
	}
	return board.UpdateStatus(ctx, input)
}

func filterStatus(apps []models.Application, status models.ApplicationStatus) []models.Application {
	if status == "" {
		return apps
	}
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

func printApplications(w io.Writer, apps []models.Application) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tSTATUS\tAPPLIED\tREVIEWED\tNOTES")
	for _, a := range apps {
		job := a.JobID
		if a.Job != nil {
			job = a.Job.Title + " @ " + a.Job.Company
		}
		reviewed := "-"
		if a.ReviewedAt != nil {
			reviewed = a.ReviewedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, job, a.Status, a.AppliedAt.Format(time.RFC3339), reviewed, a.AdminNotes)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d application(s)\n", len(apps))
}

func help() {
	fmt.Print(`
Usage: review-applications <command> [flags]

Commands:
  list  List applications, optionally by job or status
  set   Set an application's status and notes
  help  Show this help message

Examples:
  review-applications list -status pending
  review-applications set -id 7c1e... -status approved -notes "Strong portfolio"

Use 'review-applications <command> -h' for more information about a command.
`)
}
