// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor_test contains unit tests for the chain of responsibility
// building blocks: context data handling, the input/output piping between
// commands, and the stop-on-first-error behavior.
package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/stretchr/testify/assert"
)

// appendCommand appends its suffix to the piped string, recording that it ran.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	ran    bool
}

func (c *appendCommand) Execute(ctx cor.Context) {
	c.ran = true
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(cor.CtxOut, in+c.suffix)
}

// failCommand records an error on the context instead of producing output.
type failCommand struct {
	cor.BaseCommand
	ran bool
}

func (c *failCommand) Execute(ctx cor.Context) {
	c.ran = true
	ctx.AddError(c.GetName(), errors.New("boom"))
}

// TestBaseContext verifies the context's data and error bookkeeping.
func TestBaseContext(t *testing.T) {
	ctx := cor.NewBaseContext()

	assert.Nil(t, ctx.Get("missing"))
	ctx.Add("key", "value")
	assert.Equal(t, "value", ctx.Get("key"))
	ctx.Remove("key")
	assert.Nil(t, ctx.Get("key"))

	assert.False(t, ctx.HasErrors())
	ctx.AddError("step", errors.New("boom"))
	assert.True(t, ctx.HasErrors())
	assert.Equal(t, 1, len(ctx.GetErrors()))
}

// TestBaseChainPiping verifies the flip-flop: each command's output becomes
// the next command's input.
func TestBaseChainPiping(t *testing.T) {
	first := &appendCommand{BaseCommand: *cor.NewBaseCommand("first"), suffix: "-a"}
	second := &appendCommand{BaseCommand: *cor.NewBaseCommand("second"), suffix: "-b"}

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(first)
	chain.AddCommand(second)

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.True(t, first.ran)
	assert.True(t, second.ran)
	assert.False(t, ctx.HasErrors())
	// After the final flip-flop the result sits in the input slot.
	assert.Equal(t, "start-a-b", ctx.Get(cor.CtxIn))
}

// TestBaseChainStopsOnError verifies that a failing command halts the chain
// before later commands run.
func TestBaseChainStopsOnError(t *testing.T) {
	failing := &failCommand{BaseCommand: *cor.NewBaseCommand("failing")}
	after := &appendCommand{BaseCommand: *cor.NewBaseCommand("after"), suffix: "-x"}

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(failing)
	chain.AddCommand(after)

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.True(t, failing.ran)
	assert.False(t, after.ran)
	assert.True(t, ctx.HasErrors())
}

// TestBaseChainSkipsUnexecutable verifies that a command whose input is
// absent does not run.
func TestBaseChainSkipsUnexecutable(t *testing.T) {
	gated := &appendCommand{BaseCommand: *cor.NewBaseCommand("gated"), suffix: "-x"}
	gated.InputParamName = "__NEVER_SET__"

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(gated)

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.False(t, gated.ran)
	assert.False(t, ctx.HasErrors())
}
