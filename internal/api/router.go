// internal/api/router.go
package api

import (
	"context"
	"time"

	"job-board/internal/common/config"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	checkexistingapplication "job-board/internal/workers/application/check-existing-application"
	listapplications "job-board/internal/workers/application/list-applications"
	submitapplication "job-board/internal/workers/application/submit-application"
	updateapplicationstatus "job-board/internal/workers/application/update-application-status"
	resolvesession "job-board/internal/workers/auth/resolve-session"
	signin "job-board/internal/workers/auth/sign-in"
	signout "job-board/internal/workers/auth/sign-out"
	listmyapplications "job-board/internal/workers/dashboard/list-my-applications"
	createjob "job-board/internal/workers/jobs/create-job"
	deletejob "job-board/internal/workers/jobs/delete-job"
	getjob "job-board/internal/workers/jobs/get-job"
	listjobs "job-board/internal/workers/jobs/list-jobs"
	searchjobs "job-board/internal/workers/jobs/search-jobs"
	updatejob "job-board/internal/workers/jobs/update-job"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Operation is the Execute method of a worker handler.
type Operation[I, O any] func(ctx context.Context, input *I) (*O, error)

// Operations are the worker entry points served over HTTP. A nil
// operation answers 501.
type Operations struct {
	ListJobs           Operation[listjobs.Input, listjobs.Output]
	SearchJobs         Operation[searchjobs.Input, searchjobs.Output]
	GetJob             Operation[getjob.Input, getjob.Output]
	CreateJob          Operation[createjob.Input, createjob.Output]
	UpdateJob          Operation[updatejob.Input, updatejob.Output]
	DeleteJob          Operation[deletejob.Input, deletejob.Output]
	CheckApplication   Operation[checkexistingapplication.Input, checkexistingapplication.Output]
	SubmitApplication  Operation[submitapplication.Input, submitapplication.Output]
	ListApplications   Operation[listapplications.Input, listapplications.Output]
	UpdateStatus       Operation[updateapplicationstatus.Input, updateapplicationstatus.Output]
	ListMyApplications Operation[listmyapplications.Input, listmyapplications.Output]
	SignIn             Operation[signin.Input, signin.Output]
	SignOut            Operation[signout.Input, signout.Output]
	ResolveSession     Operation[resolvesession.Input, resolvesession.Output]
}

type Server struct {
	ops    Operations
	cfg    config.HTTPConfig
	logger logger.Logger
	now    func() time.Time
}

func NewServer(ops Operations, cfg config.HTTPConfig, log logger.Logger) *Server {
	return &Server{
		ops:    ops,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
		now:    time.Now,
	}
}

// Router builds the gin engine with middleware and the /api/v1 routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	r.Use(s.tracing(), s.metrics(), s.requestLogger())
	if timeout := config.GetDuration(s.cfg.RequestTimeout); timeout > 0 {
		r.Use(requestTimeout(timeout))
	}

	v1 := r.Group("/api/v1", s.resolveSession())
	{
		v1.GET("/jobs", s.listJobs(false))
		v1.GET("/jobs/search", s.searchJobs)
		v1.GET("/jobs/:id", s.getJob)

		v1.POST("/auth/sign-in", s.signIn)
		v1.GET("/auth/session", s.currentSession)
	}

	user := v1.Group("", s.requireRole(""))
	{
		user.GET("/jobs/:id/application", s.checkApplication)
		user.POST("/jobs/:id/applications", s.submitApplication)
		user.GET("/me/applications", s.listMyApplications)
		user.POST("/auth/sign-out", s.signOut)
	}

	admin := v1.Group("/admin", s.requireRole(models.RoleAdmin))
	{
		admin.GET("/jobs", s.listJobs(true))
		admin.POST("/jobs", s.createJob)
		admin.PATCH("/jobs/:id", s.updateJob)
		admin.DELETE("/jobs/:id", s.deleteJob)
		admin.GET("/applications", s.listApplications)
		admin.PATCH("/applications/:id", s.updateApplicationStatus)
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	return cfg
}
