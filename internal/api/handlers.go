// internal/api/handlers.go
package api

import (
	"net/http"
	"strings"

	"job-board/internal/common/errors"
	"job-board/internal/models"
	checkexistingapplication "job-board/internal/workers/application/check-existing-application"
	listapplications "job-board/internal/workers/application/list-applications"
	submitapplication "job-board/internal/workers/application/submit-application"
	updateapplicationstatus "job-board/internal/workers/application/update-application-status"
	signin "job-board/internal/workers/auth/sign-in"
	signout "job-board/internal/workers/auth/sign-out"
	listmyapplications "job-board/internal/workers/dashboard/list-my-applications"
	createjob "job-board/internal/workers/jobs/create-job"
	deletejob "job-board/internal/workers/jobs/delete-job"
	filterjobs "job-board/internal/workers/jobs/filter-jobs"
	getjob "job-board/internal/workers/jobs/get-job"
	listjobs "job-board/internal/workers/jobs/list-jobs"
	searchjobs "job-board/internal/workers/jobs/search-jobs"
	updatejob "job-board/internal/workers/jobs/update-job"

	"github.com/gin-gonic/gin"
)

// ==========================
// Jobs
// ==========================

type listQuery struct {
	Query    string `form:"query"`
	Location string `form:"location"`
	Type     string `form:"type"`
	Sort     string `form:"sort"`
}

func (s *Server) listJobs(includeInactive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.ops.ListJobs == nil {
			s.notImplemented(c)
			return
		}

		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			s.abort(c, errors.NewValidationFailedError(err.Error()), "")
			return
		}

		out, err := s.ops.ListJobs(c.Request.Context(), &listjobs.Input{Criteria: filterjobs.Criteria{
			Query:           q.Query,
			Location:        q.Location,
			Type:            q.Type,
			Sort:            filterjobs.SortOrder(q.Sort),
			IncludeInactive: includeInactive,
		}})
		if err != nil {
			s.abort(c, err, "")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

type searchQuery struct {
	Query    string `form:"q"`
	Location string `form:"location"`
	Type     string `form:"type"`
	From     int    `form:"from"`
	Size     int    `form:"size"`
}

func (s *Server) searchJobs(c *gin.Context) {
	if s.ops.SearchJobs == nil {
		s.notImplemented(c)
		return
	}

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}

	out, err := s.ops.SearchJobs(c.Request.Context(), &searchjobs.Input{
		Query:    q.Query,
		Location: q.Location,
		Type:     q.Type,
		From:     q.From,
		Size:     q.Size,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getJob(c *gin.Context) {
	if s.ops.GetJob == nil {
		s.notImplemented(c)
		return
	}

	input := &getjob.Input{JobID: c.Param("id")}
	if sess := currentUser(c); sess != nil {
		input.UserID = sess.UserID
		input.IncludeInactive = sess.IsAdmin()
	}

	out, err := s.ops.GetJob(c.Request.Context(), input)
	if err != nil {
		redirect := ""
		if errors.AsStandardError(err).Code == errors.ErrCodeNotFound {
			redirect = "/"
		}
		s.abort(c, err, redirect)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createJob(c *gin.Context) {
	if s.ops.CreateJob == nil {
		s.notImplemented(c)
		return
	}

	var input createjob.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}
	input.PostedBy = currentUser(c).UserID

	out, err := s.ops.CreateJob(c.Request.Context(), &input)
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) updateJob(c *gin.Context) {
	if s.ops.UpdateJob == nil {
		s.notImplemented(c)
		return
	}

	var input updatejob.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}
	input.JobID = c.Param("id")
	input.UpdatedBy = currentUser(c).UserID

	out, err := s.ops.UpdateJob(c.Request.Context(), &input)
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteJob(c *gin.Context) {
	if s.ops.DeleteJob == nil {
		s.notImplemented(c)
		return
	}

	out, err := s.ops.DeleteJob(c.Request.Context(), &deletejob.Input{
		JobID:     c.Param("id"),
		DeletedBy: currentUser(c).UserID,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

// ==========================
// Applications
// ==========================

func (s *Server) checkApplication(c *gin.Context) {
	if s.ops.CheckApplication == nil {
		s.notImplemented(c)
		return
	}

	out, err := s.ops.CheckApplication(c.Request.Context(), &checkexistingapplication.Input{
		JobID:       c.Param("id"),
		ApplicantID: currentUser(c).UserID,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

type applicationRequest struct {
	CoverLetter    string `json:"coverLetter"`
	ResumeURL      string `json:"resumeUrl"`
	AdditionalInfo string `json:"additionalInfo"`
}

func (s *Server) submitApplication(c *gin.Context) {
	if s.ops.SubmitApplication == nil {
		s.notImplemented(c)
		return
	}

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}

	out, err := s.ops.SubmitApplication(c.Request.Context(), &submitapplication.Input{
		JobID:          c.Param("id"),
		ApplicantID:    currentUser(c).UserID,
		CoverLetter:    req.CoverLetter,
		ResumeURL:      req.ResumeURL,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listApplications(c *gin.Context) {
	if s.ops.ListApplications == nil {
		s.notImplemented(c)
		return
	}

	out, err := s.ops.ListApplications(c.Request.Context(), &listapplications.Input{JobID: c.Query("jobId")})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

type reviewRequest struct {
	Status     models.ApplicationStatus `json:"status"`
	AdminNotes string                   `json:"adminNotes"`
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	if s.ops.UpdateStatus == nil {
		s.notImplemented(c)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}

	out, err := s.ops.UpdateStatus(c.Request.Context(), &updateapplicationstatus.Input{
		ApplicationID: c.Param("id"),
		Status:        req.Status,
		AdminNotes:    req.AdminNotes,
		ReviewedBy:    currentUser(c).UserID,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listMyApplications(c *gin.Context) {
	if s.ops.ListMyApplications == nil {
		s.notImplemented(c)
		return
	}

	out, err := s.ops.ListMyApplications(c.Request.Context(), &listmyapplications.Input{
		ApplicantID: currentUser(c).UserID,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

// ==========================
// Auth
// ==========================

func (s *Server) signIn(c *gin.Context) {
	if s.ops.SignIn == nil {
		s.notImplemented(c)
		return
	}

	var input signin.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		s.abort(c, errors.NewValidationFailedError(err.Error()), "")
		return
	}

	out, err := s.ops.SignIn(c.Request.Context(), &input)
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

type signOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) signOut(c *gin.Context) {
	if s.ops.SignOut == nil {
		s.notImplemented(c)
		return
	}

	// the body is optional
	var req signOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abort(c, errors.NewValidationFailedError(err.Error()), "")
			return
		}
	}

	out, err := s.ops.SignOut(c.Request.Context(), &signout.Input{
		Token:        strings.TrimSpace(c.GetHeader("Authorization")),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		s.abort(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Session       *models.Session `json:"session,omitempty"`
}

func (s *Server) currentSession(c *gin.Context) {
	sess := currentUser(c)
	c.JSON(http.StatusOK, sessionResponse{Authenticated: sess != nil, Session: sess})
}
