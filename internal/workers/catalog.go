// Package workers lists the task types this service implements.
package workers

import (
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	checkexistingapplication "job-board/internal/workers/application/check-existing-application"
	listapplications "job-board/internal/workers/application/list-applications"
	notifyapplicant "job-board/internal/workers/application/notify-applicant"
	submitapplication "job-board/internal/workers/application/submit-application"
	updateapplicationstatus "job-board/internal/workers/application/update-application-status"
	validateapplicationdata "job-board/internal/workers/application/validate-application-data"
	requirerole "job-board/internal/workers/auth/require-role"
	resolvesession "job-board/internal/workers/auth/resolve-session"
	signin "job-board/internal/workers/auth/sign-in"
	signout "job-board/internal/workers/auth/sign-out"
	listmyapplications "job-board/internal/workers/dashboard/list-my-applications"
	querypostgresql "job-board/internal/workers/data-access/query-postgresql"
	createjob "job-board/internal/workers/jobs/create-job"
	deletejob "job-board/internal/workers/jobs/delete-job"
	filterjobs "job-board/internal/workers/jobs/filter-jobs"
	getjob "job-board/internal/workers/jobs/get-job"
	indexjob "job-board/internal/workers/jobs/index-job"
	listjobs "job-board/internal/workers/jobs/list-jobs"
	searchjobs "job-board/internal/workers/jobs/search-jobs"
	updatejob "job-board/internal/workers/jobs/update-job"
	"job-board/pkg/registry"
)

const Version = "1.0.0"

type entry struct {
	taskType    string
	displayName string
	description string
	category    string
	codes       []errors.ErrorCode
	input       interface{}
	output      interface{}
	tags        []string
}

var entries = []entry{
	{listjobs.TaskType, "List Jobs", "Active listings filtered by query, location and type", "jobs",
		[]errors.ErrorCode{errors.ErrCodeFetchFailed}, nil, nil, []string{"public"}},
	{filterjobs.TaskType, "Filter Jobs", "In-memory text, location and type filtering with sort", "jobs",
		nil, nil, nil, []string{"pure"}},
	{getjob.TaskType, "Get Job", "One listing with its applications count", "jobs",
		[]errors.ErrorCode{errors.ErrCodeNotFound, errors.ErrCodeFetchFailed}, nil, nil, []string{"public"}},
	{searchjobs.TaskType, "Search Jobs", "Full-text search over the jobs index", "jobs",
		[]errors.ErrorCode{errors.ErrCodeSearchFailed}, nil, nil, []string{"public", "elasticsearch"}},
	{indexjob.TaskType, "Index Job", "Writes or removes a job document in the search index", "jobs",
		[]errors.ErrorCode{errors.ErrCodeSearchFailed, errors.ErrCodeValidationFailed}, nil, nil, []string{"elasticsearch"}},
	{createjob.TaskType, "Create Job", "Posts a new listing", "jobs",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeMutationFailed}, createjob.GetInputSchema(), nil, []string{"admin"}},
	{updatejob.TaskType, "Update Job", "Edits a listing or toggles it between active and inactive", "jobs",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeNotFound, errors.ErrCodeFetchFailed, errors.ErrCodeMutationFailed},
		updatejob.GetInputSchema(), nil, []string{"admin"}},
	{deletejob.TaskType, "Delete Job", "Removes a listing and its applications", "jobs",
		[]errors.ErrorCode{errors.ErrCodeNotFound, errors.ErrCodeMutationFailed}, nil, nil, []string{"admin"}},

	{checkexistingapplication.TaskType, "Check Existing Application", "Whether the applicant already applied to a job", "application",
		[]errors.ErrorCode{errors.ErrCodeUnauthenticated, errors.ErrCodeFetchFailed}, nil, nil, []string{"user"}},
	{validateapplicationdata.TaskType, "Validate Application Data", "Cover letter, resume URL and notes checks", "application",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed}, nil, nil, []string{"pure"}},
	{submitapplication.TaskType, "Submit Application", "Creates a pending application and bumps the job counter", "application",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeNotFound, errors.ErrCodeDuplicateApplication, errors.ErrCodeMutationFailed}, nil, nil, []string{"user"}},
	{listapplications.TaskType, "List Applications", "All applications with job title and company", "application",
		[]errors.ErrorCode{errors.ErrCodeFetchFailed}, nil, nil, []string{"admin"}},
	{updateapplicationstatus.TaskType, "Update Application Status", "Sets status and notes and stamps reviewed_at", "application",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeNotFound, errors.ErrCodeMutationFailed}, nil, nil, []string{"admin"}},
	{notifyapplicant.TaskType, "Notify Applicant", "Email and SMS on a review decision", "application",
		[]errors.ErrorCode{errors.ErrCodeNotFound, errors.ErrCodeNotificationSendFailed}, nil, nil, []string{"aws"}},
	{listmyapplications.TaskType, "List My Applications", "The signed-in user's applications with job summaries", "dashboard",
		[]errors.ErrorCode{errors.ErrCodeUnauthenticated, errors.ErrCodeFetchFailed}, nil, nil, []string{"user"}},

	{signin.TaskType, "Sign In", "Password grant and session creation", "auth",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeUnauthenticated, errors.ErrCodeIdentityProviderFailed, errors.ErrCodeSessionStoreFailed},
		signin.GetInputSchema(), signin.GetOutputSchema(), []string{"keycloak", "redis"}},
	{resolvesession.TaskType, "Resolve Session", "Bearer token to session, cached in Redis", "auth",
		[]errors.ErrorCode{errors.ErrCodeSessionStoreFailed, errors.ErrCodeIdentityProviderFailed}, nil, nil, []string{"keycloak", "redis"}},
	{signout.TaskType, "Sign Out", "Ends the session and revokes the token", "auth",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeSessionStoreFailed},
		signout.GetInputSchema(), signout.GetOutputSchema(), []string{"keycloak", "redis"}},
	{requirerole.TaskType, "Require Role", "Allow or redirect for a required role", "auth",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed}, nil, nil, []string{"pure"}},

	{querypostgresql.TaskType, "Query PostgreSQL", "Registered read-only queries for BPMN gateways", "data-access",
		[]errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeFetchFailed}, nil, nil, []string{"postgres"}},
}

// routes are the /api/v1 endpoints serving each task type.
var routes = map[string]registry.Route{
	listjobs.TaskType:                 {Method: "GET", Path: "/api/v1/jobs"},
	searchjobs.TaskType:               {Method: "GET", Path: "/api/v1/jobs/search"},
	getjob.TaskType:                   {Method: "GET", Path: "/api/v1/jobs/:id"},
	signin.TaskType:                   {Method: "POST", Path: "/api/v1/auth/sign-in"},
	resolvesession.TaskType:           {Method: "GET", Path: "/api/v1/auth/session"},
	checkexistingapplication.TaskType: {Method: "GET", Path: "/api/v1/jobs/:id/application", Role: registry.RoleUser},
	submitapplication.TaskType:        {Method: "POST", Path: "/api/v1/jobs/:id/applications", Role: registry.RoleUser},
	listmyapplications.TaskType:       {Method: "GET", Path: "/api/v1/me/applications", Role: registry.RoleUser},
	signout.TaskType:                  {Method: "POST", Path: "/api/v1/auth/sign-out", Role: registry.RoleUser},
	createjob.TaskType:                {Method: "POST", Path: "/api/v1/admin/jobs", Role: registry.RoleAdmin},
	updatejob.TaskType:                {Method: "PATCH", Path: "/api/v1/admin/jobs/:id", Role: registry.RoleAdmin},
	deletejob.TaskType:                {Method: "DELETE", Path: "/api/v1/admin/jobs/:id", Role: registry.RoleAdmin},
	listapplications.TaskType:         {Method: "GET", Path: "/api/v1/admin/applications", Role: registry.RoleAdmin},
	updateapplicationstatus.TaskType:  {Method: "PATCH", Path: "/api/v1/admin/applications/:id", Role: registry.RoleAdmin},
}

var publishes = map[string][]events.Type{
	createjob.TaskType:               {events.JobCreated},
	updatejob.TaskType:               {events.JobUpdated},
	deletejob.TaskType:               {events.JobDeleted},
	submitapplication.TaskType:       {events.ApplicationSubmitted},
	updateapplicationstatus.TaskType: {events.ApplicationReviewed},
}

var consumes = map[string][]events.Type{
	indexjob.TaskType:        {events.JobCreated, events.JobUpdated, events.JobDeleted},
	notifyapplicant.TaskType: {events.ApplicationReviewed},
}

func eventNames(types []events.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// Catalog returns every task type with its schemas and error codes.
func Catalog() *registry.Catalog {
	c := registry.NewCatalog(Version)
	for _, e := range entries {
		codes := make([]string, len(e.codes))
		retries := 0
		for i, code := range e.codes {
			codes[i] = string(code)
			if n := errors.GetRetryCount(code); n > retries {
				retries = n
			}
		}

		var route *registry.Route
		if r, ok := routes[e.taskType]; ok {
			route = &r
		}

		// task types are unique constants, so Register cannot fail here
		_ = c.Register(registry.Activity{
			ID:                   e.taskType,
			DisplayName:          e.displayName,
			Description:          e.description,
			Category:             e.category,
			Version:              Version,
			TaskType:             e.taskType,
			ImplementationStatus: "completed",
			InputSchema:          registry.SchemaOf(e.input),
			OutputSchema:         registry.SchemaOf(e.output),
			ErrorCodes:           codes,
			Retries:              retries,
			HTTP:                 route,
			Publishes:            eventNames(publishes[e.taskType]),
			Consumes:             eventNames(consumes[e.taskType]),
			Workflows:            []string{},
			Tags:                 e.tags,
		})
	}
	return c
}
