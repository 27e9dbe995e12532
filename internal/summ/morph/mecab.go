package morph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
)

const eosMarker = "EOS"

var errMeCabClosed = errors.New("mecab closed")

// Layout locates fields in one tab-separated MeCab output record.
type Layout struct {
	SurfaceIndex  int
	BaseFormIndex int
	POSIndex      int
}

// UniDicLayout matches the default output format of UniDic for MeCab:
// surface, pronunciation, lemma reading, lemma, POS, conjugation type, form.
var UniDicLayout = Layout{SurfaceIndex: 0, BaseFormIndex: 3, POSIndex: 4}

type MeCabConfig struct {
	// Bin is the mecab executable, "mecab" when empty.
	Bin    string
	DicDir string
	Layout *Layout
}

// MeCab keeps one mecab process alive and feeds it a sentence per line.
// Calls are serialized; once the process fails every later call returns the
// same error.
type MeCab struct {
	layout Layout

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bytes.Buffer
	err    error
	exited bool
}

func NewMeCab(cfg MeCabConfig) (*MeCab, error) {
	bin := cfg.Bin
	if bin == "" {
		bin = "mecab"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("locate mecab %q: %w: %w", bin, apperr.ErrExternalService, err)
	}

	var args []string
	if cfg.DicDir != "" {
		args = append(args, "-d", cfg.DicDir)
	}

	layout := UniDicLayout
	if cfg.Layout != nil {
		layout = *cfg.Layout
	}

	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mecab stdin: %w: %w", apperr.ErrExternalService, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("mecab stdout: %w: %w", apperr.ErrExternalService, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mecab: %w: %w", apperr.ErrExternalService, err)
	}

	return &MeCab{
		layout: layout,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: &stderr,
	}, nil
}

// Analyze sends one line to mecab and reads its records up to EOS. Line
// breaks inside sentence are replaced by spaces so a sentence maps to exactly
// one EOS. A cancelled ctx kills the process.
func (m *MeCab) Analyze(ctx context.Context, sentence string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := m.roundTrip(oneLine(sentence))
		done <- result{out: out, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			_ = m.shutdown(true)
			m.err = fmt.Errorf("run mecab: %w: %w (stderr: %s)",
				apperr.ErrExternalService, r.err, strings.TrimSpace(m.stderr.String()))
			return nil, m.err
		}
		return ParseMeCabOutput(r.out, m.layout), nil
	case <-ctx.Done():
		_ = m.cmd.Process.Kill()
		<-done
		_ = m.shutdown(false)
		m.err = fmt.Errorf("run mecab: %w: %w", apperr.ErrExternalService, ctx.Err())
		return nil, ctx.Err()
	}
}

func (m *MeCab) roundTrip(line string) (string, error) {
	if _, err := io.WriteString(m.stdin, line+"\n"); err != nil {
		return "", err
	}
	var out strings.Builder
	for {
		rec, err := m.stdout.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		out.WriteString(rec)
		if strings.TrimRight(rec, "\r\n") == eosMarker {
			return out.String(), nil
		}
	}
}

// Close ends the mecab process by closing its input.
func (m *MeCab) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exited {
		return nil
	}
	err := m.shutdown(false)
	if m.err == nil {
		m.err = fmt.Errorf("%w: %w", apperr.ErrExternalService, errMeCabClosed)
	}
	return err
}

// shutdown closes stdin and reaps the process. Callers hold mu and no read
// may be in flight.
func (m *MeCab) shutdown(kill bool) error {
	if m.exited {
		return nil
	}
	m.exited = true
	_ = m.stdin.Close()
	if kill {
		_ = m.cmd.Process.Kill()
	}
	return m.cmd.Wait()
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// ParseMeCabOutput converts MeCab's tab-separated output into tokens. EOS
// sentinel lines and blank lines are skipped, so multi-sentence output is
// flattened into one stream.
func ParseMeCabOutput(out string, layout Layout) []Token {
	var tokens []Token
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line == eosMarker {
			continue
		}
		fields := strings.Split(line, "\t")
		tokens = append(tokens, tokenFromFields(fields, layout))
	}
	return tokens
}

func tokenFromFields(fields []string, layout Layout) Token {
	tok := Token{Surface: fieldAt(fields, layout.SurfaceIndex)}
	if len(fields) <= layout.POSIndex {
		return tok
	}
	tok.POS = strings.TrimSpace(fields[layout.POSIndex])
	tok.BaseForm = strings.TrimSpace(fieldAt(fields, layout.BaseFormIndex))
	return tok
}

func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
