package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ylchen07/azdo-mcp/internal/dialog"
	"github.com/ylchen07/azdo-mcp/internal/form"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const maxFilterWait = 10 * time.Second

// DialogTools exposes dialog sessions as MCP tools.
type DialogTools struct {
	dialogs *dialog.Manager
}

// NewDialogTools registers dialog tools on the server.
func NewDialogTools(s *server.MCPServer, dialogs *dialog.Manager) *DialogTools {
	dt := &DialogTools{dialogs: dialogs}

	s.AddTool(
		mcp.NewTool(
			"dialog.open",
			mcp.WithDescription("Open a dialog (link, workitem or subscription) and return its fields and initial state"),
			mcp.WithInputSchema[DialogOpenArgs](),
			mcp.WithOutputSchema[DialogResult](),
		),
		mcp.NewTypedToolHandler(dt.handleOpen),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.set_field",
			mcp.WithDescription("Set a dialog field. Changing serviceType or eventType resets the other fields"),
			mcp.WithInputSchema[DialogSetFieldArgs](),
			mcp.WithOutputSchema[DialogResult](),
		),
		mcp.NewTypedToolHandler(dt.handleSetField),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.set_filter",
			mcp.WithDescription("Set an event filter of a subscription dialog; the value \"all\" clears it"),
			mcp.WithInputSchema[DialogSetFilterArgs](),
			mcp.WithOutputSchema[DialogResult](),
		),
		mcp.NewTypedToolHandler(dt.handleSetFilter),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.filters",
			mcp.WithDescription("List the filters that apply to a subscription dialog and the options they offer"),
			mcp.WithInputSchema[DialogFiltersArgs](),
			mcp.WithOutputSchema[dialog.Filters](),
		),
		mcp.NewTypedToolHandler(dt.handleFilters),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.validate",
			mcp.WithDescription("Validate a dialog and record the error messages on its state"),
			mcp.WithInputSchema[DialogIDArgs](),
			mcp.WithOutputSchema[DialogValidateResult](),
		),
		mcp.NewTypedToolHandler(dt.handleValidate),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.reset",
			mcp.WithDescription("Return a dialog to its default values"),
			mcp.WithInputSchema[DialogIDArgs](),
			mcp.WithOutputSchema[DialogResult](),
		),
		mcp.NewTypedToolHandler(dt.handleReset),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.submit",
			mcp.WithDescription("Validate and submit a dialog; a successful submit closes it"),
			mcp.WithInputSchema[DialogIDArgs](),
			mcp.WithOutputSchema[dialog.Result](),
		),
		mcp.NewTypedToolHandler(dt.handleSubmit),
	)

	s.AddTool(
		mcp.NewTool(
			"dialog.close",
			mcp.WithDescription("Discard a dialog without submitting it"),
			mcp.WithInputSchema[DialogIDArgs](),
			mcp.WithOutputSchema[OperationStatus](),
		),
		mcp.NewTypedToolHandler(dt.handleClose),
	)

	return dt
}

// DialogIDArgs identifies an open dialog.
type DialogIDArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"Dialog ID returned by dialog.open"`
}

// DialogOpenArgs parameters for opening a dialog.
type DialogOpenArgs struct {
	Kind   string            `json:"kind" jsonschema:"required,enum=link,enum=workitem,enum=subscription" jsonschema_description:"Dialog type"`
	Values map[string]string `json:"values,omitempty" jsonschema_description:"Initial field values"`
}

// DialogSetFieldArgs parameters for changing a field.
type DialogSetFieldArgs struct {
	ID    string `json:"id" jsonschema:"required" jsonschema_description:"Dialog ID"`
	Field string `json:"field" jsonschema:"required" jsonschema_description:"Field name"`
	Value string `json:"value" jsonschema_description:"New value"`
}

// DialogSetFilterArgs parameters for changing a filter.
type DialogSetFilterArgs struct {
	ID           string `json:"id" jsonschema:"required" jsonschema_description:"Dialog ID"`
	Field        string `json:"field" jsonschema:"required" jsonschema_description:"Filter field name"`
	Value        string `json:"value" jsonschema:"required" jsonschema_description:"Option value, or \"all\" for no constraint"`
	DisplayValue string `json:"displayValue,omitempty" jsonschema_description:"Option label shown to the user"`
}

// DialogFiltersArgs parameters for reading filters.
type DialogFiltersArgs struct {
	ID     string `json:"id" jsonschema:"required" jsonschema_description:"Dialog ID"`
	WaitMs int    `json:"waitMs,omitempty" jsonschema_description:"Wait up to this many milliseconds for pending options" jsonschema:"minimum=0,maximum=10000"`
}

// DialogField describes a visible field of a dialog.
type DialogField struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Kind     string        `json:"kind"`
	Required bool          `json:"required,omitempty"`
	Options  []form.Option `json:"options,omitempty"`
}

// DialogResult is the state of a dialog after an operation.
type DialogResult struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Fields []DialogField     `json:"fields"`
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"`
}

// DialogValidateResult reports a validation outcome.
type DialogValidateResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func (d *DialogTools) handleOpen(ctx context.Context, _ mcp.CallToolRequest, args DialogOpenArgs) (*mcp.CallToolResult, error) {
	kind, err := dialog.ParseKind(strings.TrimSpace(args.Kind))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	seed := make(form.Values, len(args.Values))
	for k, v := range args.Values {
		seed[form.FieldName(k)] = v
	}

	view, err := d.dialogs.Open(ctx, kind, seed)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog open failed", err), nil
	}

	fallback := fmt.Sprintf("Opened %s dialog %s", view.Kind, view.ID)
	return mcp.NewToolResultStructured(dialogResult(view), fallback), nil
}

func (d *DialogTools) handleSetField(ctx context.Context, _ mcp.CallToolRequest, args DialogSetFieldArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	view, err := d.dialogs.SetField(ctx, args.ID, form.FieldName(args.Field), args.Value)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog set field failed", err), nil
	}

	fallback := fmt.Sprintf("Set %s on dialog %s", args.Field, args.ID)
	return mcp.NewToolResultStructured(dialogResult(view), fallback), nil
}

func (d *DialogTools) handleSetFilter(ctx context.Context, _ mcp.CallToolRequest, args DialogSetFilterArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	view, err := d.dialogs.SetFilter(ctx, args.ID, form.FieldName(args.Field), args.Value, args.DisplayValue)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog set filter failed", err), nil
	}

	fallback := fmt.Sprintf("Set filter %s on dialog %s", args.Field, args.ID)
	return mcp.NewToolResultStructured(dialogResult(view), fallback), nil
}

func (d *DialogTools) handleFilters(ctx context.Context, _ mcp.CallToolRequest, args DialogFiltersArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	if args.WaitMs > 0 {
		wait := time.Duration(args.WaitMs) * time.Millisecond
		if wait > maxFilterWait {
			wait = maxFilterWait
		}
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		// A timeout still returns whatever is available.
		_ = d.dialogs.Wait(waitCtx, args.ID)
		cancel()
	}

	filters, err := d.dialogs.Filters(args.ID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog filters failed", err), nil
	}

	fallback := fmt.Sprintf("%d filters, options %s", len(filters.Fields), filters.Status)
	return mcp.NewToolResultStructured(filters, fallback), nil
}

func (d *DialogTools) handleValidate(_ context.Context, _ mcp.CallToolRequest, args DialogIDArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	ok, view, err := d.dialogs.Validate(args.ID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog validate failed", err), nil
	}

	result := DialogValidateResult{Valid: ok, Errors: failing(view.State.Errors)}
	fallback := "Dialog is valid"
	if !ok {
		fallback = fmt.Sprintf("Dialog has %d invalid fields", len(result.Errors))
	}
	return mcp.NewToolResultStructured(result, fallback), nil
}

func (d *DialogTools) handleReset(ctx context.Context, _ mcp.CallToolRequest, args DialogIDArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	view, err := d.dialogs.Reset(ctx, args.ID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog reset failed", err), nil
	}

	fallback := fmt.Sprintf("Reset dialog %s", args.ID)
	return mcp.NewToolResultStructured(dialogResult(view), fallback), nil
}

func (d *DialogTools) handleSubmit(ctx context.Context, _ mcp.CallToolRequest, args DialogIDArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	res, err := d.dialogs.Submit(ctx, args.ID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("dialog submit failed", err), nil
	}

	var fallback string
	switch {
	case !res.Valid:
		fallback = fmt.Sprintf("Dialog has %d invalid fields", len(res.Errors))
	case res.Project != nil:
		fallback = fmt.Sprintf("Linked project %s", res.Project.Name)
	case res.WorkItem != nil:
		fallback = fmt.Sprintf("Created work item %d", res.WorkItem.ID)
	case res.Subscription != nil:
		fallback = fmt.Sprintf("Created subscription %s", res.Subscription.ID)
	default:
		fallback = "Dialog submitted"
	}
	return mcp.NewToolResultStructured(res, fallback), nil
}

func (d *DialogTools) handleClose(_ context.Context, _ mcp.CallToolRequest, args DialogIDArgs) (*mcp.CallToolResult, error) {
	if msg := requireID(args.ID); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	if err := d.dialogs.Close(args.ID); err != nil {
		return mcp.NewToolResultErrorFromErr("dialog close failed", err), nil
	}

	fallback := fmt.Sprintf("Closed dialog %s", args.ID)
	return mcp.NewToolResultStructured(OperationStatus{Message: fallback}, fallback), nil
}

func requireID(id string) string {
	if strings.TrimSpace(id) == "" {
		return "dialog id must not be empty"
	}
	return ""
}

func dialogResult(view dialog.View) DialogResult {
	result := DialogResult{
		ID:     view.ID,
		Kind:   string(view.Kind),
		Fields: make([]DialogField, 0, len(view.Fields)),
		Values: make(map[string]string, len(view.State.Values)),
		Errors: make(map[string]string, len(view.State.Errors)),
	}

	for _, f := range view.Fields {
		if f.Kind == form.KindHidden || f.Kind == form.KindTimestamp {
			continue
		}
		result.Fields = append(result.Fields, DialogField{
			Name:     string(f.Name),
			Label:    f.Label,
			Kind:     string(f.Kind),
			Required: f.Validates(form.RuleRequired),
			Options:  f.Options,
		})
	}
	for k, v := range view.State.Values {
		result.Values[string(k)] = v
	}
	for k, msg := range view.State.Errors {
		result.Errors[string(k)] = msg
	}

	return result
}

func failing(errs form.Errors) map[string]string {
	out := make(map[string]string)
	for k, msg := range errs {
		if msg != "" {
			out[string(k)] = msg
		}
	}
	return out
}
