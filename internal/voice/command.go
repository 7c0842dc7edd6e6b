package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PartialPrefix marks an interim line printed by a recognizer command.
const PartialPrefix = "partial:"

// CommandConfig is a command line split into argv.
type CommandConfig struct {
	Raw  string
	Argv []string
}

func ParseCommand(raw string) CommandConfig {
	return CommandConfig{Raw: raw, Argv: strings.Fields(raw)}
}

func (c CommandConfig) Empty() bool {
	return len(c.Argv) == 0
}

// expand substitutes {key} placeholders in every argument.
func (c CommandConfig) expand(values map[string]string) []string {
	args := make([]string, len(c.Argv))
	for i, a := range c.Argv {
		for k, v := range values {
			a = strings.ReplaceAll(a, "{"+k+"}", v)
		}
		args[i] = a
	}
	return args
}

// CommandRecognizer runs an external recognizer that prints one transcript per
// line on stdout. Lines starting with "partial:" are interim results.
type CommandRecognizer struct {
	cmd CommandConfig
}

func NewCommandRecognizer(cmd CommandConfig) *CommandRecognizer {
	return &CommandRecognizer{cmd: cmd}
}

func (r *CommandRecognizer) Recognize(ctx context.Context, lang string, out chan<- Result) error {
	args := r.cmd.expand(map[string]string{"lang": lang})
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("unable to open recognizer output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to start recognizer: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res := Result{Text: line, Final: true}
		if rest, ok := strings.CutPrefix(line, PartialPrefix); ok {
			res = Result{Text: strings.TrimSpace(rest)}
		}
		select {
		case out <- res:
		case <-ctx.Done():
		}
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("recognizer exited: %w", err)
	}
	return nil
}

// CommandSynthesizer pipes text to an external speech command. Arguments may
// use {rate}, {lang} and {voice} placeholders.
type CommandSynthesizer struct {
	cmd    CommandConfig
	voices []Voice
}

func NewCommandSynthesizer(cmd CommandConfig, voices []Voice) *CommandSynthesizer {
	return &CommandSynthesizer{cmd: cmd, voices: voices}
}

func (s *CommandSynthesizer) Voices() []Voice {
	return s.voices
}

func (s *CommandSynthesizer) Speak(ctx context.Context, u Utterance) error {
	voiceName := ""
	if u.Voice != nil {
		voiceName = u.Voice.Name
	}
	args := s.cmd.expand(map[string]string{
		"rate":  strconv.FormatFloat(u.Rate, 'f', -1, 64),
		"lang":  u.Lang,
		"voice": voiceName,
	})

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(u.Text)
	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// CommandPlatform returns an init function for Service that wires the given
// commands. A command that is empty or not on PATH leaves its capability absent.
func CommandPlatform(listen, speak CommandConfig, voices []Voice) func() Platform {
	return func() Platform {
		var p Platform
		if available(listen) {
			p.Recognizer = NewCommandRecognizer(listen)
		}
		if available(speak) {
			p.Synthesizer = NewCommandSynthesizer(speak, voices)
		}
		return p
	}
}

func available(c CommandConfig) bool {
	if c.Empty() {
		return false
	}
	if _, err := exec.LookPath(c.Argv[0]); err != nil {
		if !errors.Is(err, exec.ErrNotFound) {
			zap.L().Warn("Voice command lookup failed", zap.String("command", c.Raw), zap.Error(err))
		} else {
			zap.L().Info("Voice command not found", zap.String("command", c.Argv[0]))
		}
		return false
	}
	return true
}
