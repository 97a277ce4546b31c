// Package thinktool implements the seqthink MCP tool handler.
//
// The handler is a thin inbound adapter: it decodes and normalizes the
// flat tool arguments, hands a typed request to the thinking service,
// and marshals the response back as JSON text content. All domain
// invariants live in internal/thinking.
package thinktool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/seqthink/seqthink/internal/thinking"
)

// Tool handles the seqthink MCP tool.
type Tool struct {
	svc *thinking.Service
}

// New creates a Tool backed by the given service.
func New(svc *thinking.Service) *Tool {
	return &Tool{svc: svc}
}

// Definition returns the MCP tool definition for seqthink.
func (t *Tool) Definition() mcp.Tool {
	return mcp.NewTool("seqthink",
		mcp.WithDescription(toolDescription),
		mcp.WithString("thought",
			mcp.Required(),
			mcp.Description(
				"Your current thinking step. Can include regular analytical steps, revisions of "+
					"previous thoughts, questions about previous decisions, realizations about needing "+
					"more analysis, changes in approach, hypothesis generation, or hypothesis verification",
			),
		),
		mcp.WithNumber("total_thoughts",
			mcp.Required(),
			mcp.Description(
				"Current estimate of thoughts needed (can be adjusted up/down as you progress). "+
					"Numeric value, e.g., 3, 5, 10",
			),
		),
		mcp.WithNumber("thought_number",
			mcp.Description(
				"Current number in sequence. Auto-assigned sequentially if omitted (1, 2, 3...), "+
					"or provide an explicit number for branching/semantic control",
			),
		),
		mcp.WithBoolean("next_thought_needed",
			mcp.Description(
				"Whether another thought step is needed. Auto-assigned as "+
					"(thought_number < total_thoughts) if omitted. Set explicitly to override: "+
					"true to extend beyond total_thoughts, false to end early",
			),
		),
		mcp.WithString("session_id",
			mcp.Description(
				"Optional session identifier for managing multiple thinking sessions. "+
					"Omit it to create a new session with an auto-generated UUID. "+
					"Provide the session_id from a previous response to continue that session. "+
					"Provide a custom string to create or resume a session with that ID (resilient recovery)",
			),
		),
		mcp.WithBoolean("is_revision",
			mcp.Description("Whether this thought revises previous thinking. Use with the revises_thought parameter"),
		),
		mcp.WithNumber("revises_thought",
			mcp.Description("If is_revision is true, which thought number is being reconsidered"),
		),
		mcp.WithNumber("branch_from_thought",
			mcp.Description("If branching, which thought number is the branching point. Use with the branch_id parameter"),
		),
		mcp.WithString("branch_id",
			mcp.Description("Identifier for the current branch (if branching from a previous thought)"),
		),
		mcp.WithBoolean("needs_more_thoughts",
			mcp.Description("If reaching the end but realizing more thoughts are needed beyond the initial estimate"),
		),
		mcp.WithNumber("confidence",
			mcp.Description(
				"Confidence level (0.0-1.0) expressing certainty about this thought. "+
					"Low (0.3-0.6): exploratory thinking. Medium (0.6-0.8): reasoned analysis. "+
					"High (0.8-1.0): verified solutions",
			),
		),
		mcp.WithString("uncertainty_notes",
			mcp.Description("Optional explanation for doubts or concerns (complements the confidence score)"),
		),
		mcp.WithString("outcome",
			mcp.Description("What was achieved or expected as result of this thought"),
		),
		mcp.WithArray("assumptions",
			mcp.Description(
				"Assumptions made in this thought. Required fields per entry: id (e.g., 'A1'), "+
					"text (the assumption). Optional: confidence (0.0-1.0, default 1.0), critical "+
					"(bool, default true), verifiable (bool, default false), evidence (string), "+
					"verification_status ('unverified'|'verified_true'|'verified_false'). "+
					"Core fields (text, critical) are immutable after creation — only verification "+
					"fields can be updated",
			),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithArray("depends_on_assumptions",
			mcp.Description(
				"Assumption IDs from previous thoughts that this thought depends on (e.g., ['A1', 'A2']). "+
					"Prefix with a session id to reference another session: 'session-1:A1'",
			),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("invalidates_assumptions",
			mcp.Description("Assumption IDs proven false by this thought (e.g., ['A3'])"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes one seqthink tool call.
func (t *Tool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	thought, err := optString(args, "thought")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if thought == "" {
		return mcp.NewToolResultError("'thought' is required and must be a non-empty string"), nil
	}

	total, err := optInt(args, "total_thoughts")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if total == nil {
		return mcp.NewToolResultError("'total_thoughts' is required"), nil
	}
	if *total < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("'total_thoughts' must be >= 1, got %d", *total)), nil
	}

	request := thinking.Request{
		Thought:       thought,
		TotalThoughts: *total,
	}

	if request.ThoughtNumber, err = optInt(args, "thought_number"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.ThoughtNumber != nil && *request.ThoughtNumber < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("'thought_number' must be >= 1, got %d", *request.ThoughtNumber)), nil
	}
	if request.NextThoughtNeeded, err = optBool(args, "next_thought_needed"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.SessionID, err = optString(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	isRevision, err := optBool(args, "is_revision")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	request.IsRevision = isRevision != nil && *isRevision

	revises, err := optInt(args, "revises_thought")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if revises != nil {
		if *revises < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("'revises_thought' must be >= 1, got %d", *revises)), nil
		}
		request.RevisesThought = *revises
	}

	branchFrom, err := optInt(args, "branch_from_thought")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if branchFrom != nil {
		if *branchFrom < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("'branch_from_thought' must be >= 1, got %d", *branchFrom)), nil
		}
		request.BranchFrom = *branchFrom
	}
	if request.BranchID, err = optString(args, "branch_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if request.NeedsMore, err = optBool(args, "needs_more_thoughts"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.Confidence, err = optFloat(args, "confidence"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.Confidence != nil && (*request.Confidence < 0 || *request.Confidence > 1) {
		return mcp.NewToolResultError(fmt.Sprintf("'confidence' must be in [0.0, 1.0], got %v", *request.Confidence)), nil
	}
	if request.UncertaintyNotes, err = optString(args, "uncertainty_notes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.Outcome, err = optString(args, "outcome"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if request.Assumptions, err = assumptionList(args["assumptions"]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.DependsOn, err = stringList("depends_on_assumptions", args["depends_on_assumptions"]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.Invalidates, err = stringList("invalidates_assumptions", args["invalidates_assumptions"]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.svc.Process(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolDescription is the behavioral contract shown to MCP clients.
const toolDescription = `A detailed tool for dynamic and reflective problem-solving through thoughts.
This tool helps analyze problems through a flexible thinking process that can adapt and evolve.
Each thought can build on, question, or revise previous insights as understanding deepens.

Use this tool for complex reasoning tasks requiring multi-step analysis:
breaking down complex problems, planning with room for revision, analysis
that might need course correction, problems where the full scope is not
clear initially, architecture decisions with multiple trade-offs.

Do NOT use it for simple one-step answers, direct lookups, or tasks that
are already clear and unambiguous.

Usage notes:
- Each call returns a response with session_id — pass it back to continue the same thinking session
- Run multiple independent thinking sessions in parallel by using different session_ids
- thought_number and next_thought_needed are auto-managed if omitted
- Adjust total_thoughts up or down as your estimate evolves; it is auto-bumped when progress overtakes it
- Question or revise previous thoughts with is_revision=true and revises_thought
- Explore alternative reasoning paths with branch_from_thought and branch_id
- Express uncertainty with the confidence parameter (0.0 = very uncertain, 1.0 = very certain)
- Track assumptions explicitly: declare them with assumptions, build on them with
  depends_on_assumptions, and retract them with invalidates_assumptions when proven wrong
- Monitor risky_assumptions in the response (critical + low confidence + unverified)
- Session state is in memory only — reuse a custom session_id for resilient recovery
- Only set next_thought_needed=false when truly done and you have a complete answer`
