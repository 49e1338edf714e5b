package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/decoder"
	"github.com/noah-isme/academics-api/internal/dto"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

const (
	exitOK      = 0
	exitDecode  = 1
	exitUsage   = 2
	defaultKind = "enrollment"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run decodes one payload read from a file or stdin and prints the result as
// indented JSON. Decode failures print the error code and location to stderr.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("academics-decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		kind    string
		in      string
		compact bool
		verbose bool
	)
	fs.StringVar(&kind, "kind", defaultKind, "status, user, enrollment, grades, advisor or contributors")
	fs.StringVar(&in, "in", "-", "payload file, - for stdin")
	fs.BoolVar(&compact, "compact", false, "print without indentation")
	fs.BoolVar(&verbose, "v", false, "log skipped courses")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	payload, err := readInput(in, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read payload: %v\n", err)
		return exitUsage
	}

	logr := zap.NewNop()
	if verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logr = dev
		}
	}
	defer logr.Sync() //nolint:errcheck
	dec := decoder.New(logr)

	result, err := decode(dec, strings.ToLower(kind), payload)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			fmt.Fprintln(stderr, appErr.Message)
			return exitUsage
		}
		fmt.Fprintf(stderr, "%s: %v\n", appErr.Code, err)
		return exitDecode
	}

	var out []byte
	if compact {
		out, err = sonic.Marshal(result)
	} else {
		out, err = sonic.ConfigStd.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(stderr, "encode result: %v\n", err)
		return exitDecode
	}
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

func decode(dec *decoder.Decoder, kind, payload string) (interface{}, error) {
	switch kind {
	case "status":
		return dto.NewStatusResponse(dec.DecodeStatus(payload)), nil
	case "user":
		return dec.DecodeBareUser(payload)
	case "enrollment":
		return dec.DecodeEnrollment(payload)
	case "grades":
		return dec.DecodeGradeHistory(payload)
	case "advisor":
		return dec.DecodeAdvisor(payload)
	case "contributors":
		return dec.DecodeContributors(payload)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown kind %q", kind))
	}
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}
