package filter

import "github.com/ylchen07/azdo-mcp/internal/form"

// Service hook event types, as named by Azure DevOps.
const (
	EventWorkItemCreated   = "workitem.created"
	EventWorkItemUpdated   = "workitem.updated"
	EventWorkItemDeleted   = "workitem.deleted"
	EventWorkItemCommented = "workitem.commented"
	EventWorkItemRestored  = "workitem.restored"

	EventPullRequestCreated   = "git.pullrequest.created"
	EventPullRequestUpdated   = "git.pullrequest.updated"
	EventPullRequestMerged    = "git.pullrequest.merged"
	EventPullRequestCommented = "ms.vss-code.git-pullrequest-comment-event"
	EventCodePushed           = "git.push"

	EventBuildCompleted            = "build.complete"
	EventReleaseCreated            = "ms.vss-release.release-created-event"
	EventReleaseAbandoned          = "ms.vss-release.release-abandoned-event"
	EventReleaseDeploymentStarted  = "ms.vss-release.deployment-started-event"
	EventReleaseDeploymentComplete = "ms.vss-release.deployment-completed-event"
	EventReleaseApprovalPending    = "ms.vss-release.deployment-approval-pending-event"
	EventReleaseApprovalCompleted  = "ms.vss-release.deployment-approval-completed-event"
	EventRunStateChanged           = "ms.azure-devops-pipelines.run-state-changed-event"
	EventRunStageStateChanged      = "ms.azure-devops-pipelines.stage-state-changed-event"
)

// Publisher IDs used by the service hooks API.
const (
	PublisherTFS       = "tfs"
	PublisherRelease   = "rm"
	PublisherPipelines = "pipelines"
)

// StateCompleted is the stage/run state after which a result is known.
const StateCompleted = "Completed"

// Field describes one filter dropdown: the value field, the field holding
// its display label, and the service hook input it maps to.
type Field struct {
	Name    form.FieldName
	Display form.FieldName
	InputID string
}

// Event describes one subscribable event type.
type Event struct {
	Type      string
	Label     string
	Service   string
	Publisher string
	Filters   []Field
}

var (
	areaPathFilter    = Field{Name: form.AreaPath, InputID: "areaPath"}
	repositoryFilter  = Field{Name: form.Repository, Display: form.RepositoryName, InputID: "repository"}
	branchFilter      = Field{Name: form.TargetBranch, InputID: "branch"}
	createdByFilter   = Field{Name: form.PullRequestCreatedBy, Display: form.PullRequestCreatedByName, InputID: "pullrequestCreatedBy"}
	reviewersFilter   = Field{Name: form.PullRequestReviewersContains, Display: form.PullRequestReviewersContainsName, InputID: "pullrequestReviewersContains"}
	pushedByFilter    = Field{Name: form.PushedBy, Display: form.PushedByName, InputID: "pushedBy"}
	mergeResultFilter = Field{Name: form.MergeResult, Display: form.MergeResultName, InputID: "mergeResult"}
	notifyTypeFilter  = Field{Name: form.NotificationType, Display: form.NotificationTypeName, InputID: "notificationType"}
	buildDefFilter    = Field{Name: form.BuildPipeline, InputID: "definitionName"}
	buildStatusFilter = Field{Name: form.BuildStatus, Display: form.BuildStatusName, InputID: "buildStatus"}

	releaseDefFilter     = Field{Name: form.ReleasePipelineID, Display: form.ReleasePipelineName, InputID: "releaseDefinitionId"}
	releaseStageFilter   = Field{Name: form.StageNameID, Display: form.StageName, InputID: "releaseEnvironmentId"}
	approvalTypeFilter   = Field{Name: form.ApprovalType, Display: form.ApprovalTypeName, InputID: "releaseApprovalType"}
	approvalStepFilter   = Field{Name: form.ApprovalStepType, Display: form.ApprovalStepTypeName, InputID: "releaseApprovalStatus"}
	releaseStatusFilter  = Field{Name: form.ReleaseStatus, Display: form.ReleaseStatusName, InputID: "releaseEnvironmentStatus"}
	runPipelineFilter    = Field{Name: form.RunPipeline, Display: form.RunPipelineName, InputID: "pipelineId"}
	runStageFilter       = Field{Name: form.RunStageID, Display: form.RunStage, InputID: "stageNameId"}
	runStageStateFilter  = Field{Name: form.RunStageStateID, Display: form.RunStageStateIDName, InputID: "stageStateId"}
	runStageResultFilter = Field{Name: form.RunStageResultID, Display: form.RunStageResultIDName, InputID: "stageResultId"}
	runStateFilter       = Field{Name: form.RunStateID, Display: form.RunStateIDName, InputID: "runStateId"}
	runResultFilter      = Field{Name: form.RunResultID, Display: form.RunResultIDName, InputID: "runResultId"}
)

var events = []Event{
	{Type: EventWorkItemCreated, Label: "Work Item Created", Service: form.ServiceBoards, Publisher: PublisherTFS, Filters: []Field{areaPathFilter}},
	{Type: EventWorkItemUpdated, Label: "Work Item Updated", Service: form.ServiceBoards, Publisher: PublisherTFS, Filters: []Field{areaPathFilter}},
	{Type: EventWorkItemDeleted, Label: "Work Item Deleted", Service: form.ServiceBoards, Publisher: PublisherTFS, Filters: []Field{areaPathFilter}},
	{Type: EventWorkItemCommented, Label: "Work Item Commented On", Service: form.ServiceBoards, Publisher: PublisherTFS, Filters: []Field{areaPathFilter}},
	{Type: EventWorkItemRestored, Label: "Work Item Restored", Service: form.ServiceBoards, Publisher: PublisherTFS, Filters: []Field{areaPathFilter}},

	{Type: EventPullRequestCreated, Label: "Pull Request Created", Service: form.ServiceRepos, Publisher: PublisherTFS,
		Filters: []Field{repositoryFilter, branchFilter, createdByFilter, reviewersFilter}},
	{Type: EventPullRequestUpdated, Label: "Pull Request Updated", Service: form.ServiceRepos, Publisher: PublisherTFS,
		Filters: []Field{repositoryFilter, branchFilter, createdByFilter, reviewersFilter, notifyTypeFilter}},
	{Type: EventPullRequestMerged, Label: "Pull Request Merge Attempted", Service: form.ServiceRepos, Publisher: PublisherTFS,
		Filters: []Field{repositoryFilter, branchFilter, createdByFilter, reviewersFilter, mergeResultFilter}},
	{Type: EventPullRequestCommented, Label: "Pull Request Commented On", Service: form.ServiceRepos, Publisher: PublisherTFS,
		Filters: []Field{repositoryFilter, branchFilter}},
	{Type: EventCodePushed, Label: "Code Pushed", Service: form.ServiceRepos, Publisher: PublisherTFS,
		Filters: []Field{repositoryFilter, branchFilter, pushedByFilter}},

	{Type: EventBuildCompleted, Label: "Build Completed", Service: form.ServicePipelines, Publisher: PublisherTFS,
		Filters: []Field{buildDefFilter, buildStatusFilter}},
	{Type: EventReleaseCreated, Label: "Release Created", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter}},
	{Type: EventReleaseAbandoned, Label: "Release Abandoned", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter}},
	{Type: EventReleaseDeploymentStarted, Label: "Release Deployment Started", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter, releaseStageFilter}},
	{Type: EventReleaseDeploymentComplete, Label: "Release Deployment Completed", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter, releaseStageFilter, releaseStatusFilter}},
	{Type: EventReleaseApprovalPending, Label: "Release Deployment Approval Pending", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter, releaseStageFilter, approvalTypeFilter}},
	{Type: EventReleaseApprovalCompleted, Label: "Release Deployment Approval Completed", Service: form.ServicePipelines, Publisher: PublisherRelease,
		Filters: []Field{releaseDefFilter, releaseStageFilter, approvalTypeFilter, approvalStepFilter}},
	{Type: EventRunStateChanged, Label: "Run State Changed", Service: form.ServicePipelines, Publisher: PublisherPipelines,
		Filters: []Field{runPipelineFilter, runStateFilter, runResultFilter}},
	{Type: EventRunStageStateChanged, Label: "Run Stage State Changed", Service: form.ServicePipelines, Publisher: PublisherPipelines,
		Filters: []Field{runPipelineFilter, runStageFilter, runStageStateFilter, runStageResultFilter}},
}

// LookupEvent returns the catalog entry for eventType.
func LookupEvent(eventType string) (Event, bool) {
	for _, e := range events {
		if e.Type == eventType {
			return e, true
		}
	}
	return Event{}, false
}

// EventTypes returns the event type choices for a service category.
func EventTypes(serviceType string) []form.Option {
	var opts []form.Option
	for _, e := range events {
		if e.Service == serviceType {
			opts = append(opts, form.Option{Value: e.Type, Label: e.Label})
		}
	}
	return opts
}

// FieldByInput maps a service hook input ID back to its filter field for an event.
func (e Event) FieldByInput(inputID string) (Field, bool) {
	for _, f := range e.Filters {
		if f.InputID == inputID {
			return f, true
		}
	}
	return Field{}, false
}

// Inputs returns the publisher inputs for the filters that carry a value.
// Empty filters mean "All" and are omitted.
func (e Event) Inputs(values form.Values) map[string]string {
	inputs := make(map[string]string)
	for _, f := range e.Filters {
		if v := values[f.Name]; v != "" {
			inputs[f.InputID] = v
		}
	}
	return inputs
}
