package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ylchen07/azdo-mcp/internal/form"
)

func TestSetFilterRepositoryAllClearsBranch(t *testing.T) {
	t.Parallel()

	values := form.Values{
		form.Repository:     "repo-1",
		form.RepositoryName: "frontend",
		form.TargetBranch:   "main",
	}

	got := SetFilter(values, form.Repository, AllValue, form.RepositoryName, AllLabel)

	want := form.Values{
		form.Repository:     "",
		form.RepositoryName: "",
		form.TargetBranch:   "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if values[form.TargetBranch] != "main" {
		t.Fatalf("input values must not be mutated")
	}
}

func TestSetFilterRepositoryChangeClearsBranch(t *testing.T) {
	t.Parallel()

	values := form.Values{form.Repository: "repo-1", form.TargetBranch: "main"}

	got := SetFilter(values, form.Repository, "repo-2", form.RepositoryName, "backend")
	if got[form.Repository] != "repo-2" || got[form.RepositoryName] != "backend" {
		t.Fatalf("unexpected repository values %#v", got)
	}
	if got[form.TargetBranch] != "" {
		t.Fatalf("expected branch to be cleared when repository changes")
	}

	same := SetFilter(values, form.Repository, "repo-1", form.RepositoryName, "frontend")
	if same[form.TargetBranch] != "main" {
		t.Fatalf("reselecting the same repository should keep the branch")
	}
}

func TestSetFilterRunPipelineAllClearsStage(t *testing.T) {
	t.Parallel()

	values := form.Values{
		form.RunPipeline:     "12",
		form.RunPipelineName: "CI",
		form.RunStageID:      "build",
		form.RunStage:        "Build",
		form.RunStageStateID: "InProgress",
	}

	got := SetFilter(values, form.RunPipeline, AllValue, form.RunPipelineName, AllLabel)
	want := form.Values{
		form.RunPipeline:     "",
		form.RunPipelineName: "",
		form.RunStageID:      "",
		form.RunStage:        "",
		form.RunStageStateID: "InProgress",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFilterStateResultRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		field      form.FieldName
		value      string
		result     form.FieldName
		wantResult string
	}{
		{"stage completed keeps result", form.RunStageStateID, StateCompleted, form.RunStageResultID, "Succeeded"},
		{"stage in progress clears result", form.RunStageStateID, "InProgress", form.RunStageResultID, ""},
		{"stage all keeps result", form.RunStageStateID, AllValue, form.RunStageResultID, "Succeeded"},
		{"run completed keeps result", form.RunStateID, StateCompleted, form.RunResultID, "Succeeded"},
		{"run in progress clears result", form.RunStateID, "InProgress", form.RunResultID, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			values := form.Values{tc.field: "", tc.result: "Succeeded"}
			got := SetFilter(values, tc.field, tc.value, "", "")
			if got[tc.result] != tc.wantResult {
				t.Fatalf("%s = %q, want %q", tc.result, got[tc.result], tc.wantResult)
			}
		})
	}
}

func TestSetFilterOrdinaryField(t *testing.T) {
	t.Parallel()

	values := form.Values{form.PushedBy: "", form.Repository: "repo-1", form.TargetBranch: "main"}
	got := SetFilter(values, form.PushedBy, "u-1", form.PushedByName, "Dana")

	want := form.Values{
		form.PushedBy:     "u-1",
		form.PushedByName: "Dana",
		form.Repository:   "repo-1",
		form.TargetBranch: "main",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicable(t *testing.T) {
	t.Parallel()

	got := Applicable(form.ServiceRepos, EventCodePushed, form.Values{})
	want := []FieldState{
		{Name: form.Repository, Display: form.RepositoryName, Enabled: true},
		{Name: form.TargetBranch, Enabled: false},
		{Name: form.PushedBy, Display: form.PushedByName, Enabled: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	got = Applicable(form.ServiceRepos, EventCodePushed, form.Values{form.Repository: "repo-1"})
	if !got[1].Enabled {
		t.Fatalf("branch filter should be enabled once a repository is chosen")
	}
}

func TestApplicableStageResult(t *testing.T) {
	t.Parallel()

	fields := func(values form.Values) map[form.FieldName]bool {
		out := map[form.FieldName]bool{}
		for _, f := range Applicable(form.ServicePipelines, EventRunStageStateChanged, values) {
			out[f.Name] = f.Enabled
		}
		return out
	}

	got := fields(form.Values{form.RunStageStateID: "InProgress"})
	if got[form.RunStageResultID] {
		t.Fatalf("result filter should be disabled while the stage is in progress")
	}
	if got[form.RunStageID] {
		t.Fatalf("stage filter should be disabled without a pipeline")
	}

	got = fields(form.Values{form.RunPipeline: "12", form.RunStageStateID: StateCompleted})
	if !got[form.RunStageResultID] || !got[form.RunStageID] {
		t.Fatalf("expected stage and result filters enabled, got %#v", got)
	}
}

func TestApplicableMismatchedService(t *testing.T) {
	t.Parallel()

	if got := Applicable(form.ServiceBoards, EventCodePushed, nil); got != nil {
		t.Fatalf("expected no filters for an event outside the service, got %#v", got)
	}
	if got := Applicable(form.ServiceBoards, "", nil); got != nil {
		t.Fatalf("expected no filters without an event type, got %#v", got)
	}
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	for _, svc := range []string{form.ServiceBoards, form.ServiceRepos, form.ServicePipelines} {
		opts := EventTypes(svc)
		if len(opts) == 0 {
			t.Fatalf("no event types for %s", svc)
		}
		for _, o := range opts {
			e, ok := LookupEvent(o.Value)
			if !ok || e.Service != svc {
				t.Fatalf("event %s not registered for %s", o.Value, svc)
			}
		}
	}
}

func TestWithAll(t *testing.T) {
	t.Parallel()

	opts := []Option{{DisplayValue: "main", Value: "refs/heads/main"}}

	if got := WithAll(opts, false); len(got) != 1 || got[0].Value != AllValue {
		t.Fatalf("expected only All while loading, got %#v", got)
	}

	got := WithAll(opts, true)
	want := []Option{{DisplayValue: AllLabel, Value: AllValue}, opts[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionComplete(t *testing.T) {
	t.Parallel()

	sel := SelectionFrom(form.Values{form.Organization: "contoso", form.Project: "p1"})
	if sel.Complete() {
		t.Fatalf("selection without event type should be incomplete")
	}
	sel.EventType = EventCodePushed
	if !sel.Complete() {
		t.Fatalf("expected complete selection")
	}
	if got := sel.Key(); got != `["contoso" "p1" "git.push" "" "" ""]` {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestSelectionKeyDistinguishesSeparators(t *testing.T) {
	t.Parallel()

	a := Selection{Organization: "a|b", ProjectID: "c", EventType: EventCodePushed}
	b := Selection{Organization: "a", ProjectID: "b|c", EventType: EventCodePushed}
	if a.Key() == b.Key() {
		t.Fatalf("selections %#v and %#v share key %s", a, b, a.Key())
	}
}
