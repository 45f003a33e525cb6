package store

import (
	"fmt"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// Finding severities as stored in the findings table.
const (
	SeverityError    = "error"
	SeverityWarning  = "warning"
	SeverityDeadlock = "deadlock"
)

// Run is one recorded verification of a machine definition.
type Run struct {
	ID            string                      `json:"id"`
	Seq           int64                       `json:"seq"`
	MachineID     string                      `json:"machine_id"`
	MachineName   string                      `json:"machine_name"`
	MachineHash   string                      `json:"machine_hash"`
	MachineJSON   string                      `json:"-"`
	EngineVersion string                      `json:"engine_version"`
	Report        verifier.VerificationReport `json:"report"`
}

// NewRun builds a Run for m and its report. The machine is stored in
// canonical JSON form and identified by its content hash.
func NewRun(id string, seq int64, m *model.StateMachine, report verifier.VerificationReport) (Run, error) {
	canonical, err := model.MarshalCanonical(m)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	hash, err := model.MachineHash(m)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	return Run{
		ID:            id,
		Seq:           seq,
		MachineID:     m.ID,
		MachineName:   m.Name,
		MachineHash:   hash,
		MachineJSON:   string(canonical),
		EngineVersion: model.EngineVersion,
		Report:        report,
	}, nil
}
