package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ylchen07/azdo-mcp/internal/auth"
	"github.com/ylchen07/azdo-mcp/internal/config"
	"github.com/ylchen07/azdo-mcp/internal/filter"
	"github.com/ylchen07/azdo-mcp/internal/form"
)

func newTestService(t *testing.T, fn roundTripFunc) *Service {
	t.Helper()
	creds := config.Credentials{PAT: "pat"}
	client, err := NewClient("https://dev.azure.com", creds, nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	client.SetTransport(auth.NewTransport(fn, creds))
	return NewService(client)
}

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}
}

func decodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
}

func TestServiceListProjects(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/contoso/_apis/projects" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("$top") != "5" {
			t.Fatalf("expected $top=5, got %s", r.URL.Query().Get("$top"))
		}
		if got := r.Header.Get("Authorization"); got == "" {
			t.Fatalf("expected auth header")
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"count": 1,
			"value": []map[string]string{{"id": "p-1", "name": "Web", "state": "wellFormed"}},
		}), nil
	})

	projects, err := svc.ListProjects(context.Background(), "contoso", 5)
	if err != nil {
		t.Fatalf("ListProjects error: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "p-1" || projects[0].Name != "Web" {
		t.Fatalf("unexpected projects %#v", projects)
	}
}

func TestServiceListProjectsRequiresOrganization(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(*http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	if _, err := svc.ListProjects(context.Background(), "", 0); err == nil {
		t.Fatalf("expected organization validation error")
	}
}

func TestServiceGetProject(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/contoso/_apis/projects/My Web" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(t, http.StatusOK, map[string]string{"id": "p-1", "name": "My Web"}), nil
	})

	project, err := svc.GetProject(context.Background(), "contoso", "My Web")
	if err != nil {
		t.Fatalf("GetProject error: %v", err)
	}
	if project.ID != "p-1" {
		t.Fatalf("unexpected project %#v", project)
	}
}

func TestServiceCreateWorkItem(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/contoso/web/_apis/wit/workitems/$User Story" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != jsonPatchContentType {
			t.Fatalf("unexpected content-type %s", got)
		}

		var ops []PatchOperation
		decodeBody(t, r, &ops)
		want := []PatchOperation{
			{Op: "add", Path: "/fields/System.Title", Value: "Login fails"},
			{Op: "add", Path: "/fields/System.AreaPath", Value: `web\auth`},
		}
		if diff := cmp.Diff(want, ops); diff != "" {
			t.Fatalf("patch mismatch (-want +got):\n%s", diff)
		}

		return jsonResponse(t, http.StatusOK, map[string]any{
			"id":     42,
			"_links": map[string]any{"html": map[string]string{"href": "https://dev.azure.com/contoso/web/_workitems/edit/42"}},
		}), nil
	})

	created, err := svc.CreateWorkItem(context.Background(), WorkItemInput{
		Organization: "contoso",
		Project:      "web",
		Type:         "User Story",
		Title:        "Login fails",
		AreaPath:     `web\auth`,
	})
	if err != nil {
		t.Fatalf("CreateWorkItem error: %v", err)
	}
	if created.ID != 42 || created.Links.HTML.Href == "" {
		t.Fatalf("unexpected work item %#v", created)
	}
}

func TestServiceCreateWorkItemValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(*http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})

	cases := []WorkItemInput{
		{Project: "web", Type: "Bug", Title: "x"},
		{Organization: "contoso", Project: "web", Title: "x"},
		{Organization: "contoso", Project: "web", Type: "Bug"},
	}
	for _, input := range cases {
		if _, err := svc.CreateWorkItem(context.Background(), input); err == nil {
			t.Fatalf("expected validation error for %#v", input)
		}
	}
}

func TestServiceCreateSubscription(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/contoso/_apis/hooks/subscriptions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		var body Subscription
		decodeBody(t, r, &body)
		if body.PublisherID != "tfs" || body.EventType != "git.push" || body.ConsumerID != webhookConsumer {
			t.Fatalf("unexpected subscription body %#v", body)
		}
		wantInputs := map[string]string{"projectId": "p-1", "repository": "repo-1"}
		if diff := cmp.Diff(wantInputs, body.PublisherInputs); diff != "" {
			t.Fatalf("publisher inputs mismatch (-want +got):\n%s", diff)
		}
		if body.ConsumerInputs["url"] != "https://chat.example.com/hook?channelID=c1" {
			t.Fatalf("unexpected consumer inputs %#v", body.ConsumerInputs)
		}

		body.ID = "sub-1"
		body.Status = "enabled"
		return jsonResponse(t, http.StatusOK, body), nil
	})

	created, err := svc.CreateSubscription(context.Background(), SubscriptionInput{
		Organization: "contoso",
		ProjectID:    "p-1",
		EventType:    "git.push",
		Publisher:    "tfs",
		Inputs:       map[string]string{"repository": "repo-1"},
		WebhookURL:   "https://chat.example.com/hook?channelID=c1",
	})
	if err != nil {
		t.Fatalf("CreateSubscription error: %v", err)
	}
	if created.ID != "sub-1" {
		t.Fatalf("unexpected subscription %#v", created)
	}
}

func TestServiceFetchFilterOptions(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/contoso/_apis/hooks/publishers/tfs/inputValuesQuery" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		var q inputValuesQuery
		decodeBody(t, r, &q)
		wantCurrent := map[string]string{"projectId": "p-1", "repository": "repo-1"}
		if diff := cmp.Diff(wantCurrent, q.CurrentValues); diff != "" {
			t.Fatalf("current values mismatch (-want +got):\n%s", diff)
		}
		if len(q.InputValues) != 3 {
			t.Fatalf("expected 3 inputs for git.push, got %d", len(q.InputValues))
		}

		return jsonResponse(t, http.StatusOK, map[string]any{
			"inputValues": []map[string]any{
				{"inputId": "repository", "possibleValues": []map[string]string{{"value": "repo-1", "displayValue": "frontend"}}},
				{"inputId": "branch", "possibleValues": []map[string]string{{"value": "refs/heads/main"}}},
				{"inputId": "somethingElse", "possibleValues": []map[string]string{{"value": "x"}}},
			},
		}), nil
	})

	opts, err := svc.FetchFilterOptions(context.Background(), filter.Selection{
		Organization: "contoso",
		ProjectID:    "p-1",
		EventType:    filter.EventCodePushed,
		Repository:   "repo-1",
	})
	if err != nil {
		t.Fatalf("FetchFilterOptions error: %v", err)
	}

	want := filter.Options{
		form.Repository:   {{DisplayValue: "frontend", Value: "repo-1"}},
		form.TargetBranch: {{DisplayValue: "refs/heads/main", Value: "refs/heads/main"}},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceFetchFilterOptionsInputError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/contoso/_apis/hooks/publishers/pipelines/inputValuesQuery" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"inputValues": []map[string]any{
				{"inputId": "pipelineId", "error": map[string]string{"message": "access denied"}},
			},
		}), nil
	})

	_, err := svc.FetchFilterOptions(context.Background(), filter.Selection{
		Organization: "contoso",
		ProjectID:    "p-1",
		EventType:    filter.EventRunStateChanged,
	})
	if err == nil {
		t.Fatalf("expected input error to surface")
	}
}

func TestServiceFetchFilterOptionsUnknownEvent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(*http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	if _, err := svc.FetchFilterOptions(context.Background(), filter.Selection{Organization: "o", ProjectID: "p", EventType: "nope"}); err == nil {
		t.Fatalf("expected unknown event error")
	}
}

func TestAPIPath(t *testing.T) {
	t.Parallel()

	got, err := apiPath("contoso", "_apis", "wit", "workitems", "$User Story")
	if err != nil {
		t.Fatalf("apiPath: %v", err)
	}
	if got != "/contoso/_apis/wit/workitems/$User%20Story" {
		t.Fatalf("unexpected path %s", got)
	}

	for _, bad := range []string{"", ".", ".."} {
		if _, err := apiPath("contoso", bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestServiceEscapesPathSegments(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(r *http.Request) (*http.Response, error) {
		if got := r.URL.EscapedPath(); got != "/contoso/_apis/projects/web%2F..%2Fadmin" {
			t.Fatalf("unexpected escaped path %s", got)
		}
		return jsonResponse(t, http.StatusOK, map[string]string{"id": "p-1"}), nil
	})

	if _, err := svc.GetProject(context.Background(), "contoso", "web/../admin"); err != nil {
		t.Fatalf("GetProject error: %v", err)
	}
}

func TestServiceRejectsTraversalSegment(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(*http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	if _, err := svc.GetProject(context.Background(), "contoso", ".."); err == nil {
		t.Fatalf("expected traversal segment to be rejected")
	}
}
