// Package chat is the interactive surface: a line-editing REPL that turns
// user input into store and gateway calls.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/lmchat/lmchat/internal/gateway"
	"github.com/lmchat/lmchat/internal/models"
	"github.com/lmchat/lmchat/internal/store"
)

// REPL drives one chat session. It owns at most one open store handle at a
// time; switching databases closes the previous handle first.
type REPL struct {
	gw      *gateway.Gateway
	logger  *zap.Logger
	current *store.Store
}

// New builds a REPL over gw. The initial store may be nil; prompts are
// refused until a database is opened.
func New(gw *gateway.Gateway, initial *store.Store, logger *zap.Logger) *REPL {
	return &REPL{gw: gw, logger: logger, current: initial}
}

// Run reads lines until /quit or EOF. It always releases the open store
// handle before returning.
func (r *REPL) Run(ctx context.Context) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()
	defer r.closeCurrent()

	fmt.Println("lmchat - /open <path> to select a database, /help for commands")

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.dispatch(line, input); quit {
				return nil
			}
			continue
		}

		r.submit(ctx, input)
	}
}

// dispatch handles a /command line and reports whether the session should
// end.
func (r *REPL) dispatch(line *liner.State, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help", "/h":
		fmt.Println("/open <path>    select a database (created if missing)")
		fmt.Println("/create <path>  create a new database")
		fmt.Println("/clear          clear message history")
		fmt.Println("/history        show stored messages")
		fmt.Println("/models         show the model preference order")
		fmt.Println("/quit           exit")

	case "/open":
		if arg == "" {
			fmt.Println("usage: /open <path>")
			return false
		}
		r.switchDatabase(arg, store.Open)

	case "/create":
		if arg == "" {
			fmt.Println("usage: /create <path>")
			return false
		}
		r.switchDatabase(arg, store.Create)

	case "/clear":
		if r.current == nil {
			fmt.Println("Please select a database first.")
			return false
		}
		answer, err := line.Prompt(fmt.Sprintf("Clear message history in %s? [y/N] ", r.current.Path()))
		if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Database not cleared.")
			return false
		}
		if err := r.current.Clear(); err != nil {
			r.logger.Error("failed to clear database", zap.Error(err))
			fmt.Println("Could not clear the database:", err)
			return false
		}
		fmt.Println("Database cleared.")

	case "/history":
		if r.current == nil {
			fmt.Println("Please select a database first.")
			return false
		}
		history, err := r.current.History()
		if err != nil {
			r.logger.Error("failed to read history", zap.Error(err))
			fmt.Println("Could not read history:", err)
			return false
		}
		for _, msg := range history {
			fmt.Printf("%d %s: %s\n", msg.Seq, msg.Role, msg.Content)
		}

	case "/models":
		for i, name := range r.gw.Candidates() {
			fmt.Printf("%d. %s\n", i+1, name)
		}

	case "/quit", "/q":
		return true

	default:
		fmt.Println("Unknown command. /help lists commands.")
	}
	return false
}

// switchDatabase closes the current handle and acquires a new one via open.
// On failure no database is selected afterwards; the old handle is released
// either way.
func (r *REPL) switchDatabase(path string, open func(string) (*store.Store, error)) {
	r.closeCurrent()

	st, err := open(path)
	if err != nil {
		r.logger.Error("failed to open database",
			zap.Error(err),
			zap.String("dbPath", path))
		fmt.Println("Could not open the database:", err)
		return
	}
	r.current = st
	fmt.Println("Using database:", path)
}

// submit records the prompt, asks the gateway for a reply and records that
// too. Exhaustion of the candidate list is shown as a status, not an error.
func (r *REPL) submit(ctx context.Context, prompt string) {
	if r.current == nil {
		fmt.Println("Please select a database first.")
		return
	}

	history, err := r.current.History()
	if err != nil {
		r.logger.Error("failed to read history", zap.Error(err))
		fmt.Println("Could not read history:", err)
		return
	}

	if _, err := r.current.Append(models.RoleUser, prompt); err != nil {
		r.logger.Error("failed to save user message", zap.Error(err))
		fmt.Println("Could not save the message:", err)
		return
	}

	fmt.Println("Prompt is submitted. Wait for response generation.")
	reply, err := r.gw.Complete(ctx, prompt, history)
	if err != nil {
		if errors.Is(err, gateway.ErrAllModelsUnavailable) {
			fmt.Println("No model is available right now, try again later.")
		} else {
			fmt.Println("Could not generate a response:", err)
		}
		return
	}

	if _, err := r.current.Append(models.RoleAssistant, reply); err != nil {
		r.logger.Error("failed to save assistant message", zap.Error(err))
		fmt.Println("Could not save the response:", err)
		return
	}
	fmt.Println(reply)
}

func (r *REPL) closeCurrent() {
	if r.current == nil {
		return
	}
	if err := r.current.Close(); err != nil {
		r.logger.Warn("failed to close database",
			zap.Error(err),
			zap.String("dbPath", r.current.Path()))
	}
	r.current = nil
}
