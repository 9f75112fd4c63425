// cmd/job-board/wiring.go
package main

import (
	"database/sql"

	"github.com/elastic/go-elasticsearch/v8"

	"job-board/internal/api"
	"job-board/internal/common/auth"
	commonaws "job-board/internal/common/aws"
	"job-board/internal/common/camunda"
	"job-board/internal/common/config"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"

	cea "job-board/internal/workers/application/check-existing-application"
	la "job-board/internal/workers/application/list-applications"
	na "job-board/internal/workers/application/notify-applicant"
	sa "job-board/internal/workers/application/submit-application"
	uas "job-board/internal/workers/application/update-application-status"
	vad "job-board/internal/workers/application/validate-application-data"

	rr "job-board/internal/workers/auth/require-role"
	rs "job-board/internal/workers/auth/resolve-session"
	si "job-board/internal/workers/auth/sign-in"
	so "job-board/internal/workers/auth/sign-out"

	lma "job-board/internal/workers/dashboard/list-my-applications"

	qp "job-board/internal/workers/data-access/query-postgresql"

	cj "job-board/internal/workers/jobs/create-job"
	dj "job-board/internal/workers/jobs/delete-job"
	fj "job-board/internal/workers/jobs/filter-jobs"
	gj "job-board/internal/workers/jobs/get-job"
	ij "job-board/internal/workers/jobs/index-job"
	lj "job-board/internal/workers/jobs/list-jobs"
	sj "job-board/internal/workers/jobs/search-jobs"
	uj "job-board/internal/workers/jobs/update-job"
)

type dependencies struct {
	cfg       *config.Config
	db        *sql.DB
	es        *elasticsearch.Client // nil when search is disabled
	sessions  *session.Store
	identity  auth.IdentityProvider
	publisher events.Publisher
	messages  uas.MessagePublisher // nil without Zeebe
	ses       commonaws.SESService
	sns       commonaws.SNSService
	log       logger.Logger
}

type handlerSet struct {
	listJobs   *lj.Handler
	filterJobs *fj.Handler
	getJob     *gj.Handler
	createJob  *cj.Handler
	updateJob  *uj.Handler
	deleteJob  *dj.Handler
	searchJobs *sj.Handler
	indexJob   *ij.Handler

	checkApplication  *cea.Handler
	validateData      *vad.Handler
	submitApplication *sa.Handler
	listApplications  *la.Handler
	updateStatus      *uas.Handler
	notify            *na.Handler

	listMyApplications *lma.Handler

	signIn         *si.Handler
	signOut        *so.Handler
	resolveSession *rs.Handler
	requireRole    *rr.Handler

	queryPostgres *qp.Handler
}

func buildHandlers(d dependencies) *handlerSet {
	wcfg := func(taskType string) config.WorkerConfig {
		return config.GetWorkerConfig(d.cfg, taskType)
	}

	h := &handlerSet{
		listJobs:   lj.NewHandler(lj.LoadConfig(wcfg(lj.TaskType)), d.db, d.log),
		filterJobs: fj.NewHandler(fj.LoadConfig(wcfg(fj.TaskType)), d.log),
		getJob:     gj.NewHandler(gj.LoadConfig(wcfg(gj.TaskType)), d.db, d.log),
		createJob:  cj.NewHandler(cj.LoadConfig(wcfg(cj.TaskType)), d.db, d.publisher, d.log),
		updateJob:  uj.NewHandler(uj.LoadConfig(wcfg(uj.TaskType)), d.db, d.publisher, d.log),
		deleteJob:  dj.NewHandler(dj.LoadConfig(wcfg(dj.TaskType)), d.db, d.publisher, d.log),

		checkApplication:  cea.NewHandler(cea.LoadConfig(wcfg(cea.TaskType)), d.db, d.log),
		validateData:      vad.NewHandler(vad.LoadConfig(wcfg(vad.TaskType)), d.log),
		submitApplication: sa.NewHandler(sa.LoadConfig(wcfg(sa.TaskType)), d.db, d.publisher, d.log),
		listApplications:  la.NewHandler(la.LoadConfig(wcfg(la.TaskType)), d.db, d.log),
		updateStatus:      uas.NewHandler(uas.LoadConfig(wcfg(uas.TaskType)), d.db, d.publisher, d.log),
		notify:            na.NewHandler(na.LoadConfig(d.cfg.Notifications, wcfg(na.TaskType)), d.db, d.ses, d.sns, d.log),

		listMyApplications: lma.NewHandler(lma.LoadConfig(wcfg(lma.TaskType)), d.db, d.log),

		signIn: si.NewHandler(si.LoadConfig(wcfg(si.TaskType)), si.ServiceDependencies{
			Identity: d.identity,
			Sessions: d.sessions,
			DB:       d.db,
			Logger:   d.log,
		}),
		signOut: so.NewHandler(so.LoadConfig(wcfg(so.TaskType)), so.ServiceDependencies{
			Identity: d.identity,
			Sessions: d.sessions,
			Logger:   d.log,
		}),
		resolveSession: rs.NewHandler(rs.LoadConfig(wcfg(rs.TaskType)), rs.ServiceDependencies{
			Identity: d.identity,
			Sessions: d.sessions,
			DB:       d.db,
			Logger:   d.log,
		}),
		requireRole: rr.NewHandler(rr.LoadConfig(wcfg(rr.TaskType)), d.log),

		queryPostgres: qp.NewHandler(qp.LoadConfig(wcfg(qp.TaskType)), d.db, d.log),
	}

	if d.messages != nil {
		h.updateStatus.WithMessages(d.messages)
	}
	if d.es != nil {
		h.searchJobs = sj.NewHandler(sj.LoadConfig(d.cfg.Search.JobsIndex, wcfg(sj.TaskType)), d.es, d.log)
		h.indexJob = ij.NewHandler(ij.LoadConfig(d.cfg.Search.JobsIndex, wcfg(ij.TaskType)), d.es, d.log)
	}
	return h
}

// subscribe wires the event consumers: search indexing and applicant notification.
func (h *handlerSet) subscribe(d *events.Dispatcher) {
	if h.indexJob != nil {
		d.On(events.JobCreated, h.indexJob.HandleEvent)
		d.On(events.JobUpdated, h.indexJob.HandleEvent)
		d.On(events.JobDeleted, h.indexJob.HandleEvent)
	}
	d.On(events.ApplicationReviewed, h.notify.HandleEvent)
}

func (h *handlerSet) operations() api.Operations {
	ops := api.Operations{
		ListJobs:           h.listJobs.Execute,
		GetJob:             h.getJob.Execute,
		CreateJob:          h.createJob.Execute,
		UpdateJob:          h.updateJob.Execute,
		DeleteJob:          h.deleteJob.Execute,
		CheckApplication:   h.checkApplication.Execute,
		SubmitApplication:  h.submitApplication.Execute,
		ListApplications:   h.listApplications.Execute,
		UpdateStatus:       h.updateStatus.Execute,
		ListMyApplications: h.listMyApplications.Execute,
		SignIn:             h.signIn.Execute,
		SignOut:            h.signOut.Execute,
		ResolveSession:     h.resolveSession.Execute,
	}
	if h.searchJobs != nil {
		ops.SearchJobs = h.searchJobs.Execute
	}
	return ops
}

type jobWorker struct {
	taskType string
	handler  camunda.JobHandler
}

func (h *handlerSet) jobWorkers() []jobWorker {
	list := []jobWorker{
		{lj.TaskType, h.listJobs},
		{fj.TaskType, h.filterJobs},
		{gj.TaskType, h.getJob},
		{cj.TaskType, h.createJob},
		{uj.TaskType, h.updateJob},
		{dj.TaskType, h.deleteJob},
		{cea.TaskType, h.checkApplication},
		{vad.TaskType, h.validateData},
		{sa.TaskType, h.submitApplication},
		{la.TaskType, h.listApplications},
		{uas.TaskType, h.updateStatus},
		{na.TaskType, h.notify},
		{lma.TaskType, h.listMyApplications},
		{si.TaskType, h.signIn},
		{so.TaskType, h.signOut},
		{rs.TaskType, h.resolveSession},
		{rr.TaskType, h.requireRole},
		{qp.TaskType, h.queryPostgres},
	}
	if h.searchJobs != nil {
		list = append(list, jobWorker{sj.TaskType, h.searchJobs}, jobWorker{ij.TaskType, h.indexJob})
	}
	return list
}
