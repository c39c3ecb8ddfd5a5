package executor

import "context"

// Executor defines the interface for executing external commands.
type Executor interface {
	// Execute runs a command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteInDir runs a command in a specific working directory.
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)

	// ExecuteStream runs a command and feeds each line of combined output to
	// onLine as it arrives, for tools that report progress on stderr.
	ExecuteStream(ctx context.Context, onLine func(line string), name string, args ...string) error
}
