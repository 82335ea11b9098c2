// Package exec runs external commands such as git.
//
// An Executor streams a command's output to its writers and honours context
// cancellation. Command is a fluent builder over an Executor:
//
//	executor := exec.NewExecutor(&exec.Options{Dir: dest})
//	err := exec.NewCommand(executor, "git").
//	    WithArgs("commit", "-m", "Initial commit").
//	    WithEnv("GIT_AUTHOR_NAME=hatch").
//	    Run(ctx)
//
// Missing binaries produce errors wrapping ErrCommandNotFound.
package exec
