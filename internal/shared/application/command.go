package application

import "context"

// Command is a request to mutate exactly one aggregate.
type Command interface {
	CommandName() string
}

// CommandHandler executes one command type inside a unit of work.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}
