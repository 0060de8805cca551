package executor

// PromptContext carries the three free-text parts of a prompt that sit ahead
// of the rendered template (spec §4.C6: "prompt = context_prefix +
// recent_state_summary + last_action_summary + template").
type PromptContext struct {
	ContextPrefix      string
	RecentStateSummary string
	LastActionSummary  string
}

func assemblePrompt(ctx PromptContext, template string) string {
	return ctx.ContextPrefix + "\n" + ctx.RecentStateSummary + "\n" + ctx.LastActionSummary + "\n" + template
}
