package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sagehq/sage/pkg/chat"
	"github.com/sagehq/sage/pkg/tutor"
)

// Runner drives a chat session over the console, wiring client updates to
// the terminal and the persisted history.
type Runner struct {
	client  *tutor.Client
	history *chat.History
	output  *Output
	conv    chat.Conversation
}

// NewRunner creates a console runner. The in-session conversation is seeded
// from the persisted history so resumed sessions carry their context.
func NewRunner(client *tutor.Client, history *chat.History, output *Output) *Runner {
	conv := chat.NewConversation()
	for _, msg := range history.GetMessages() {
		conv = chat.AddMessage(conv, msg)
	}

	return &Runner{
		client:  client,
		history: history,
		output:  output,
		conv:    conv,
	}
}

// RunPrompt executes a single exchange and returns once it has finalized
func (r *Runner) RunPrompt(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	return r.exchange(ctx, prompt)
}

// RunInteractive reads prompts from stdin until EOF or /quit
func (r *Runner) RunInteractive(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	if !chat.IsEmpty(r.conv) {
		r.output.Notice(fmt.Sprintf("continuing a conversation with %d earlier messages", chat.GetMessageCount(r.conv)))
	}

	for {
		r.output.Prompt()
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		if err := r.exchange(ctx, line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// exchange runs one user turn: send, stream updates until terminal, persist
func (r *Runner) exchange(ctx context.Context, prompt string) error {
	if r.client.Busy() {
		r.output.Notice("still responding, please wait")
		return nil
	}

	// the backend sees everything before the turn being asked
	prior := chat.GetMessages(r.conv)

	userMsg := chat.NewUserMessage(prompt)
	r.conv = chat.AddMessage(r.conv, userMsg)
	if err := r.history.Add(userMsg); err != nil {
		return fmt.Errorf("failed to record user message: %w", err)
	}

	r.output.Reset()
	r.client.SendMessage(ctx, userMsg.Content, prior)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-r.client.Updates():
			done, err := r.handle(update)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (r *Runner) handle(update tutor.Update) (bool, error) {
	switch update.Kind {
	case tutor.UpdateThinking:
		r.output.Thinking(update.Thinking)
	case tutor.UpdateAnswer:
		r.output.Answer(update.Answer)
	case tutor.UpdateFinal:
		r.output.Answer(update.Answer)
		r.output.Final()
		r.conv = chat.AddMessage(r.conv, update.Message)
		if err := r.history.Add(update.Message); err != nil {
			return true, fmt.Errorf("failed to record assistant message: %w", err)
		}
		return true, nil
	case tutor.UpdateFailed:
		r.output.Error(update.Message.Content)
		r.conv = chat.AddMessage(r.conv, update.Message)
		if err := r.history.Add(update.Message); err != nil {
			return true, fmt.Errorf("failed to record failure message: %w", err)
		}
		return true, nil
	}
	return false, nil
}
