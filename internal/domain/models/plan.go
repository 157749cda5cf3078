package models

import "time"

// SwitchChainStep marks that the wallet must change network before any step runs
type SwitchChainStep struct {
	ID          StepID `json:"id"`
	FromChainID string `json:"fromChainId"`
	ToChainID   string `json:"toChainId"`
}

// StepPlan is a preview of the steps a flow would execute.
// It is advisory: a later run generates its steps again and may differ.
type StepPlan struct {
	SwitchChain  *SwitchChainStep `json:"switchChain,omitempty"`
	Approval     *Step            `json:"approval,omitempty"`
	Transactions []Step           `json:"transactions"`
	Signatures   []Step           `json:"signatures"`
	GeneratedAt  time.Time        `json:"generatedAt"`
}

// Len returns the number of actions the plan contains, including a chain switch
func (p *StepPlan) Len() int {
	n := len(p.Transactions) + len(p.Signatures)
	if p.SwitchChain != nil {
		n++
	}
	if p.Approval != nil {
		n++
	}
	return n
}

// Age returns how long ago the plan was generated
func (p *StepPlan) Age(now time.Time) time.Duration {
	return now.Sub(p.GeneratedAt)
}
