package azdo

// Project represents an Azure DevOps team project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	State       string `json:"state"`
}

// WorkItem is the subset of a work item returned on creation.
type WorkItem struct {
	ID     int            `json:"id"`
	Rev    int            `json:"rev"`
	URL    string         `json:"url"`
	Fields map[string]any `json:"fields"`
	Links  struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"_links"`
}

// WorkItemInput describes a work item to create.
type WorkItemInput struct {
	Organization string
	Project      string
	Type         string
	Title        string
	Description  string
	AreaPath     string
}

// SubscriptionInput describes a service hook subscription to create.
type SubscriptionInput struct {
	Organization string
	ProjectID    string
	EventType    string
	Publisher    string
	Inputs       map[string]string
	WebhookURL   string
}

// Subscription is a service hook subscription.
type Subscription struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	PublisherID      string            `json:"publisherId"`
	EventType        string            `json:"eventType"`
	ConsumerID       string            `json:"consumerId"`
	ConsumerActionID string            `json:"consumerActionId"`
	PublisherInputs  map[string]string `json:"publisherInputs"`
	ConsumerInputs   map[string]string `json:"consumerInputs"`
}

type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

type inputValue struct {
	InputID        string `json:"inputId"`
	PossibleValues []struct {
		Value        string `json:"value"`
		DisplayValue string `json:"displayValue"`
	} `json:"possibleValues,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type inputValuesQuery struct {
	CurrentValues map[string]string `json:"currentValues"`
	InputValues   []inputValue      `json:"inputValues"`
}
