package loop

import (
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
)

// event is anything the loop goroutine processes to completion.
type event interface {
	isEvent()
}

type result[T any] struct {
	value T
	err   error
}

type lookupEvent struct {
	path  domain.Path
	reply chan result[*ports.Lookup]
}

type publishEvent struct {
	topic string
	tfs   []domain.Transformation
	reply chan result[int]
}

type livenessEvent struct {
	path     domain.Path
	consumer string
	live     bool
}

type reloadEvent struct {
	reply chan result[int]
}

type statusEvent struct {
	reply chan result[*domain.Status]
}

func (lookupEvent) isEvent()   {}
func (publishEvent) isEvent()  {}
func (livenessEvent) isEvent() {}
func (reloadEvent) isEvent()   {}
func (statusEvent) isEvent()   {}
