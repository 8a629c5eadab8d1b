package research

import (
	"fmt"
	"strings"

	"github.com/gridscope/gridscope/internal/service/ragstore"
)

const analystPersona = `You are an expert NFL tactical analyst with deep knowledge of:
- Offensive and defensive strategies
- Player positioning and roles
- Game situation analysis
- Play calling and formation selection
- Opponent weakness exploitation

Provide insightful, actionable recommendations backed by specific plays, formations, and player assignments.`

func buildQuestionPrompt(query, contextSummary string, relevant []ragstore.Item) string {
	var b strings.Builder
	b.WriteString("You are analyzing a live NFL game. Answer this question with specific details:\n\n")
	fmt.Fprintf(&b, "QUESTION: %s\n\n", query)
	fmt.Fprintf(&b, "GAME CONTEXT:\n%s\n", contextSummary)

	if len(relevant) > 0 {
		b.WriteString("\nMOST RELEVANT PLAYS FOR THIS QUESTION:\n")
		for _, item := range relevant {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", item.Timestamp, item.EventType, item.Description)
		}
	}

	b.WriteString(`
INSTRUCTIONS:
- Be concise but detailed
- Reference specific plays or formations from the recent context
- Provide tactical reasoning
- Suggest specific player names when relevant
- Include confidence levels for key claims`)
	return b.String()
}

func buildStrategyPrompt(query, contextSummary string) string {
	return fmt.Sprintf(`%s

GAME SITUATION:
%s

COACHING QUESTION: %s

ANALYSIS NEEDED:
1. Identify opponent weaknesses from recent plays
2. Suggest specific formations and plays to exploit
3. Recommend key players to involve
4. Explain the tactical reasoning
5. Provide confidence level (0-100%%)

Format your response with clear sections and specific player names.`, analystPersona, contextSummary, query)
}

func buildPlayerPrompt(contextSummary, focusTeam string) string {
	return fmt.Sprintf(`Analyze this game situation and recommend specific players and actions:

GAME CONTEXT:
%s

TEAM TO ANALYZE: %s

TASK: Provide 3-5 specific player recommendations with their positions and suggested actions.
Format each as: PLAYER: [name] | POSITION: [QB/WR/RB/etc] | ACTION: [what they should do]

Be specific and actionable.`, contextSummary, focusTeam)
}
