package dexparser

import (
	"bytes"
	"fmt"
)

// ClassifiedInstruction ties one instruction (either wire shape) to its
// owning program and position. Identity key is programId:outer[-inner].
type ClassifiedInstruction struct {
	Instruction Instruction
	ProgramID   string
	OuterIndex  int
	InnerIndex  int // -1 for outer instructions
}

func (c ClassifiedInstruction) Key() string {
	if c.InnerIndex < 0 {
		return fmt.Sprintf("%s:%d", c.ProgramID, c.OuterIndex)
	}
	return fmt.Sprintf("%s:%d-%d", c.ProgramID, c.OuterIndex, c.InnerIndex)
}

func (c ClassifiedInstruction) Idx() string {
	return makeIdx(c.OuterIndex, c.InnerIndex)
}

// InstructionClassifier indexes every outer and inner instruction by owning
// program id. Construction is a single append-only pass; the resulting
// grouping is read-only and preserves execution order per program.
type InstructionClassifier struct {
	adapter   *TransactionAdapter
	byProgram map[string][]ClassifiedInstruction
	order     []string // program ids in first-seen order
}

func NewInstructionClassifier(adapter *TransactionAdapter) *InstructionClassifier {
	c := &InstructionClassifier{
		adapter:   adapter,
		byProgram: make(map[string][]ClassifiedInstruction),
	}

	for i, in := range adapter.OuterInstructions() {
		c.add(in, i, -1)
	}
	for _, set := range adapter.InnerSets() {
		for j, in := range set.Instructions {
			c.add(in, set.OuterIndex, j)
		}
	}
	return c
}

func (c *InstructionClassifier) add(in Instruction, outer, inner int) {
	progID := c.adapter.programIDOf(in)
	if progID == "" {
		return
	}
	if _, seen := c.byProgram[progID]; !seen {
		c.order = append(c.order, progID)
	}
	c.byProgram[progID] = append(c.byProgram[progID], ClassifiedInstruction{
		Instruction: in,
		ProgramID:   progID,
		OuterIndex:  outer,
		InnerIndex:  inner,
	})
}

// GetInstructions returns every instruction owned by the program, in
// execution order.
func (c *InstructionClassifier) GetInstructions(programID string) []ClassifiedInstruction {
	return c.byProgram[programID]
}

// GetMultiInstructions concatenates the instruction lists of several
// programs, preserving per-program order.
func (c *InstructionClassifier) GetMultiInstructions(programIDs ...string) []ClassifiedInstruction {
	var out []ClassifiedInstruction
	for _, id := range programIDs {
		out = append(out, c.byProgram[id]...)
	}
	return out
}

// GetInstructionByDiscriminator linearly scans all programs for the first
// instruction whose data starts with the given bytes.
func (c *InstructionClassifier) GetInstructionByDiscriminator(discriminator []byte, length int) *ClassifiedInstruction {
	if length > len(discriminator) {
		length = len(discriminator)
	}
	for _, progID := range c.order {
		for i := range c.byProgram[progID] {
			ci := &c.byProgram[progID][i]
			data := c.adapter.dataOf(ci.Instruction)
			if len(data) < length {
				continue
			}
			if bytes.Equal(data[:length], discriminator[:length]) {
				return ci
			}
		}
	}
	return nil
}

// GetAllProgramIDs returns the touched program ids in first-seen order,
// excluding infrastructure programs so dispatch never mistakes system calls
// for DEX activity.
func (c *InstructionClassifier) GetAllProgramIDs() []string {
	out := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if isSystemProgram(id) || isTokenProgram(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
