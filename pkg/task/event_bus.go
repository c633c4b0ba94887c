// Copyright 2020 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package task

import (
	"strings"
	"time"

	ev "github.com/asaskevich/EventBus"
)

// EventKind is the kind of a step event
type EventKind string

const (
	// EventStepBegin is emitted before a step of a Serial is executed
	EventStepBegin EventKind = "step_begin"
	// EventStepFinish is emitted after a step returned, with its cost
	EventStepFinish EventKind = "step_finish"
)

// EventBus notifies subscribers about the steps of a provisioning run. It
// keeps the start time of the running steps so finish events carry the cost.
type EventBus struct {
	bus   ev.Bus
	start map[Task]time.Time
}

// NewEventBus creates a new EventBus
func NewEventBus() EventBus {
	return EventBus{
		bus:   ev.New(),
		start: make(map[Task]time.Time),
	}
}

func (e *EventBus) publishBegin(t Task) {
	e.start[t] = time.Now()
	e.bus.Publish(string(EventStepBegin), t)
}

func (e *EventBus) publishFinish(t Task, err error) {
	var cost time.Duration
	if begin, ok := e.start[t]; ok {
		cost = time.Since(begin)
		delete(e.start, t)
	}
	e.bus.Publish(string(EventStepFinish), t, cost, err)
}

// OnBegin registers fn for EventStepBegin
func (e *EventBus) OnBegin(fn func(t Task)) {
	_ = e.bus.Subscribe(string(EventStepBegin), fn)
}

// OnFinish registers fn for EventStepFinish
func (e *EventBus) OnFinish(fn func(t Task, cost time.Duration, err error)) {
	_ = e.bus.Subscribe(string(EventStepFinish), fn)
}

// StepName is the first line of the description of t
func StepName(t Task) string {
	name, _, _ := strings.Cut(t.String(), "\n")
	return name
}
