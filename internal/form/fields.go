package form

// Fields shared by several dialogs.
const (
	Organization FieldName = "organization"
	Project      FieldName = "project"
)

// Work item dialog fields.
const (
	WorkItemType FieldName = "type"
	Title        FieldName = "title"
	Description  FieldName = "description"
	AreaPath     FieldName = "areaPath"
)

// Subscription dialog fields.
const (
	ServiceType FieldName = "serviceType"
	EventType   FieldName = "eventType"
	ChannelID   FieldName = "channelID"
)

// Subscription filter fields. Fields ending in Name hold the display label of
// the value field they pair with.
const (
	Repository                       FieldName = "repository"
	RepositoryName                   FieldName = "repositoryName"
	TargetBranch                     FieldName = "targetBranch"
	PullRequestCreatedBy             FieldName = "pullRequestCreatedBy"
	PullRequestCreatedByName         FieldName = "pullRequestCreatedByName"
	PullRequestReviewersContains     FieldName = "pullRequestReviewersContains"
	PullRequestReviewersContainsName FieldName = "pullRequestReviewersContainsName"
	PushedBy                         FieldName = "pushedBy"
	PushedByName                     FieldName = "pushedByName"
	MergeResult                      FieldName = "mergeResult"
	MergeResultName                  FieldName = "mergeResultName"
	NotificationType                 FieldName = "notificationType"
	NotificationTypeName             FieldName = "notificationTypeName"
	BuildPipeline                    FieldName = "buildPipeline"
	BuildStatus                      FieldName = "buildStatus"
	BuildStatusName                  FieldName = "buildStatusName"
	ReleasePipelineID                FieldName = "releasePipelineId"
	ReleasePipelineName              FieldName = "releasePipelineName"
	StageNameID                      FieldName = "stageNameId"
	StageName                        FieldName = "stageName"
	ApprovalType                     FieldName = "approvalType"
	ApprovalTypeName                 FieldName = "approvalTypeName"
	ApprovalStepType                 FieldName = "approvalStepType"
	ApprovalStepTypeName             FieldName = "approvalStepTypeName"
	ReleaseStatus                    FieldName = "releaseStatus"
	ReleaseStatusName                FieldName = "releaseStatusName"
	RunPipeline                      FieldName = "runPipeline"
	RunPipelineName                  FieldName = "runPipelineName"
	RunStageID                       FieldName = "runStageId"
	RunStage                         FieldName = "runStage"
	RunStageStateID                  FieldName = "runStageStateId"
	RunStageStateIDName              FieldName = "runStageStateIdName"
	RunStageResultID                 FieldName = "runStageResultId"
	RunStageResultIDName             FieldName = "runStageResultIdName"
	RunStateID                       FieldName = "runStateId"
	RunStateIDName                   FieldName = "runStateIdName"
	RunResultID                      FieldName = "runResultId"
	RunResultIDName                  FieldName = "runResultIdName"
)

// Service categories offered by the subscription dialog.
const (
	ServiceBoards    = "boards"
	ServiceRepos     = "repos"
	ServicePipelines = "pipelines"
)

// WorkItemTypes lists the work item types offered on creation.
var WorkItemTypes = []Option{
	{Value: "Task", Label: "Task"},
	{Value: "Epic", Label: "Epic"},
	{Value: "Bug", Label: "Bug"},
	{Value: "Feature", Label: "Feature"},
	{Value: "User Story", Label: "User Story"},
	{Value: "Issue", Label: "Issue"},
	{Value: "Test Case", Label: "Test Case"},
}

// ServiceTypes lists the subscription service categories.
var ServiceTypes = []Option{
	{Value: ServiceBoards, Label: "Boards"},
	{Value: ServiceRepos, Label: "Repos"},
	{Value: ServicePipelines, Label: "Pipelines"},
}

var required = []Rule{RuleRequired}

func timestampField() FieldDescriptor {
	return FieldDescriptor{Name: TimestampField, Label: "Timestamp", Kind: KindTimestamp}
}

// LinkFields is the field set of the link-project dialog.
var LinkFields = FieldSet{
	{Name: Organization, Label: "Organization name", Kind: KindText, Validations: required},
	{Name: Project, Label: "Project name", Kind: KindText, Validations: required},
	timestampField(),
}

// WorkItemFields is the field set of the create-work-item dialog.
var WorkItemFields = FieldSet{
	{Name: Organization, Label: "Organization name", Kind: KindSelect, Validations: required},
	{Name: Project, Label: "Project name", Kind: KindSelect, Validations: required},
	{Name: WorkItemType, Label: "Work item type", Kind: KindSelect, Options: WorkItemTypes, Validations: required},
	{Name: Title, Label: "Title", Kind: KindText, Validations: required},
	{Name: Description, Label: "Description", Kind: KindText},
	{Name: AreaPath, Label: "Area path", Kind: KindText},
	timestampField(),
}

// SubscriptionFields is the field set of the create-subscription dialog.
var SubscriptionFields = append(FieldSet{
	{Name: Organization, Label: "Organization name", Kind: KindSelect, Validations: required},
	{Name: Project, Label: "Project name", Kind: KindSelect, Validations: required},
	{
		Name:        ServiceType,
		Label:       "Service type",
		Kind:        KindSelect,
		Options:     ServiceTypes,
		Validations: required,
		Resets:      []FieldName{Organization, Project, ChannelID},
	},
	{
		Name:        EventType,
		Label:       "Event type",
		Kind:        KindSelect,
		Validations: required,
		Resets:      []FieldName{Organization, Project, ChannelID, ServiceType},
	},
	{Name: ChannelID, Label: "Channel name", Kind: KindSelect, Validations: required},
	timestampField(),
}, hiddenFields(
	AreaPath,
	Repository, RepositoryName, TargetBranch,
	PullRequestCreatedBy, PullRequestCreatedByName,
	PullRequestReviewersContains, PullRequestReviewersContainsName,
	PushedBy, PushedByName,
	MergeResult, MergeResultName,
	NotificationType, NotificationTypeName,
	BuildPipeline, BuildStatus, BuildStatusName,
	ReleasePipelineID, ReleasePipelineName,
	StageNameID, StageName,
	ApprovalType, ApprovalTypeName,
	ApprovalStepType, ApprovalStepTypeName,
	ReleaseStatus, ReleaseStatusName,
	RunPipeline, RunPipelineName,
	RunStageID, RunStage,
	RunStageStateID, RunStageStateIDName,
	RunStageResultID, RunStageResultIDName,
	RunStateID, RunStateIDName,
	RunResultID, RunResultIDName,
)...)

func hiddenFields(names ...FieldName) FieldSet {
	fs := make(FieldSet, 0, len(names))
	for _, name := range names {
		fs = append(fs, FieldDescriptor{Name: name, Label: string(name), Kind: KindHidden})
	}
	return fs
}
