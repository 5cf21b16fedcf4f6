package match

import "github.com/DafnaShemesh/taskmatch/pkg/lexicon"

// Rule maps one trigger phrase to a task. Rules are scanned in order and
// the first phrase contained in the normalized utterance wins, so more
// specific phrases belong before broader ones.
type Rule struct {
	Phrase string
	Task   lexicon.TaskID
}

// DefaultRules returns the built-in internal table: the high-confidence
// phrases the service answers without consulting the external lexicon.
func DefaultRules() []Rule {
	return []Rule{
		{Phrase: "forgot my password", Task: "ResetPasswordTask"},
		{Phrase: "reset my password", Task: "ResetPasswordTask"},
		{Phrase: "reset password", Task: "ResetPasswordTask"},
		{Phrase: "unlock my account", Task: "UnlockAccountTask"},
		{Phrase: "cancel my order", Task: "CancelOrderTask"},
		{Phrase: "where is my order", Task: "CheckOrderStatusTask"},
		{Phrase: "order status", Task: "CheckOrderStatusTask"},
		{Phrase: "money back", Task: "RefundRequestTask"},
		{Phrase: "refund", Task: "RefundRequestTask"},
		{Phrase: "talk to an agent", Task: "EscalateToAgentTask"},
		{Phrase: "speak to a human", Task: "EscalateToAgentTask"},
	}
}
