package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/kanban/internal/persistence"
	"github.com/dyluth/kanban/pkg/board"
)

// OutputFormat selects how events are rendered.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = "default"
	OutputFormatJSON    OutputFormat = "json"
)

// Source delivers board events. *persistence.Subscription implements it.
type Source interface {
	Messages() <-chan *persistence.Message
	Errors() <-chan error
}

type formatter interface {
	Format(msg *persistence.Message) error
	FormatError(err error) error
}

// Stream writes every event from src to w until ctx is cancelled or the
// source closes. Decode errors from the source are reported inline and do
// not stop the stream.
func Stream(ctx context.Context, src Source, format OutputFormat, w io.Writer) error {
	var f formatter
	switch format {
	case OutputFormatDefault, "":
		f = &defaultFormatter{writer: w}
	case OutputFormatJSON:
		f = &jsonFormatter{writer: w}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	messages, errs := src.Messages(), src.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := f.Format(msg); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err := f.FormatError(err); err != nil {
				return err
			}
		}
	}
}

// WaitFor blocks until an event with the given topic arrives, the timeout
// passes, or ctx is cancelled.
func WaitFor(ctx context.Context, src Source, topic string, timeout time.Duration) (*persistence.Message, error) {
	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for %s after %v", topic, timeout)

		case msg, ok := <-src.Messages():
			if !ok {
				return nil, fmt.Errorf("event stream closed while waiting for %s", topic)
			}
			if msg.Topic == topic {
				return msg, nil
			}
		}
	}
}

type defaultFormatter struct {
	writer io.Writer
}

func (f *defaultFormatter) Format(msg *persistence.Message) error {
	line, err := describe(msg)
	if err != nil {
		return f.FormatError(err)
	}
	_, err = fmt.Fprintf(f.writer, "[%s] %s\n", msg.At.Local().Format("15:04:05"), line)
	return err
}

func (f *defaultFormatter) FormatError(err error) error {
	_, werr := fmt.Fprintf(f.writer, "⚠️  %v\n", err)
	return werr
}

// describe renders the one-line summary of an event.
func describe(msg *persistence.Message) (string, error) {
	switch msg.Topic {
	case board.TopicTaskCreated, board.TopicTaskUpdated:
		var t board.Task
		if err := decode(msg, &t); err != nil {
			return "", err
		}
		if msg.Topic == board.TopicTaskCreated {
			return fmt.Sprintf("✨ Task created: id=%s column=%s title=%q", t.ID, t.ColumnID, t.Title), nil
		}
		return fmt.Sprintf("📝 Task updated: id=%s title=%q", t.ID, t.Title), nil

	case board.TopicTaskMoved:
		var m board.TaskMoved
		if err := decode(msg, &m); err != nil {
			return "", err
		}
		return fmt.Sprintf("➡️  Task moved: id=%s from=%s to=%s index=%d", m.ID, m.SourceColumnID, m.DestinationColumnID, m.AppliedIndex), nil

	case board.TopicTaskDeleted:
		var d board.TaskDeleted
		if err := decode(msg, &d); err != nil {
			return "", err
		}
		return fmt.Sprintf("🗑️  Task deleted: id=%s", d.ID), nil

	case board.TopicColumnCreated, board.TopicColumnUpdated:
		var c board.Column
		if err := decode(msg, &c); err != nil {
			return "", err
		}
		if msg.Topic == board.TopicColumnCreated {
			return fmt.Sprintf("🧱 Column created: id=%s title=%q", c.ID, c.Title), nil
		}
		return fmt.Sprintf("🎨 Column updated: id=%s title=%q color=%s", c.ID, c.Title, c.Color), nil

	case board.TopicColumnDeleted:
		var d board.ColumnDeleted
		if err := decode(msg, &d); err != nil {
			return "", err
		}
		return fmt.Sprintf("🗑️  Column deleted: id=%s tasks=%d", d.ID, len(d.TaskIDs)), nil

	default:
		return fmt.Sprintf("• %s", msg.Topic), nil
	}
}

func decode(msg *persistence.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("malformed %s payload: %w", msg.Topic, err)
	}
	return nil
}

type jsonFormatter struct {
	writer io.Writer
}

func (f *jsonFormatter) Format(msg *persistence.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(f.writer, "%s\n", data)
	return err
}

func (f *jsonFormatter) FormatError(err error) error {
	data, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		return merr
	}
	_, werr := fmt.Fprintf(f.writer, "%s\n", data)
	return werr
}
