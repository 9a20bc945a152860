// Package main provides cnpcheck, a CLI that validates Romanian personal
// numeric codes and prints what they encode.
//
//	cnpcheck [-json] [-as-of YYYY-MM-DD] CODE...
//	cnpcheck -stdin < codes.txt
//
// The exit status is 1 when any code is invalid and 2 on usage errors.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"carehub/internal/identity/models"
	identityservice "carehub/internal/identity/service"
	"carehub/pkg/cnp"
	"carehub/pkg/requestcontext"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

type output struct {
	CNP           string `json:"cnp"`
	Valid         bool   `json:"valid"`
	ChecksumValid bool   `json:"checksum_valid"`
	BirthDate     string `json:"birth_date,omitempty"`
	Sex           string `json:"sex,omitempty"`
	Age           *int   `json:"age,omitempty"`
	County        string `json:"county,omitempty"`
	Foreign       bool   `json:"foreign,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cnpcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Output as JSON")
	asOfFlag := fs.String("as-of", "", "Reference date for ages (YYYY-MM-DD). Defaults to today.")
	fromStdin := fs.Bool("stdin", false, "Read one code per line from standard input")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cnpcheck [-json] [-as-of YYYY-MM-DD] CODE...")
		fmt.Fprintln(stderr, "       cnpcheck [-json] [-as-of YYYY-MM-DD] -stdin")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	asOf := time.Now()
	if *asOfFlag != "" {
		t, err := time.ParseInLocation(time.DateOnly, *asOfFlag, time.Local)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -as-of %q: want YYYY-MM-DD\n", *asOfFlag)
			return exitUsage
		}
		asOf = t
	}

	codes := fs.Args()
	if *fromStdin {
		var err error
		if codes, err = readCodes(stdin); err != nil {
			fmt.Fprintf(stderr, "reading stdin: %v\n", err)
			return exitUsage
		}
	}
	if len(codes) == 0 {
		fs.Usage()
		return exitUsage
	}

	ctx := requestcontext.WithTime(context.Background(), asOf)
	svc := identityservice.New()
	results := make([]output, 0, len(codes))
	status := exitOK
	for _, raw := range codes {
		code := cnp.Normalize(raw)
		out := toOutput(code, svc.Check(ctx, code))
		if !out.Valid {
			status = exitInvalid
		}
		results = append(results, out)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(stderr, "writing output: %v\n", err)
			return exitUsage
		}
		return status
	}
	printTable(stdout, results)
	return status
}

func readCodes(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			codes = append(codes, line)
		}
	}
	return codes, scanner.Err()
}

func toOutput(code string, r models.CheckResult) output {
	out := output{
		CNP:           code,
		Valid:         r.Valid,
		ChecksumValid: r.ChecksumValid,
		Reason:        string(r.Reason),
	}
	if !r.Valid {
		return out
	}
	age := r.Identity.Age
	out.BirthDate = r.Identity.BirthDate.String()
	out.Sex = string(r.Identity.Sex)
	out.Age = &age
	out.Foreign = r.Identity.Foreign
	if r.Identity.County != nil {
		out.County = r.Identity.County.Name
	}
	return out
}

func printTable(w io.Writer, results []output) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CNP\tSTATUS\tBIRTH DATE\tSEX\tAGE\tCOUNTY")
	for _, r := range results {
		if !r.Valid {
			fmt.Fprintf(tw, "%s\tinvalid (%s)\t-\t-\t-\t-\n", r.CNP, r.Reason)
			continue
		}
		county := r.County
		if county == "" {
			county = "-"
		}
		fmt.Fprintf(tw, "%s\tvalid\t%s\t%s\t%d\t%s\n", r.CNP, r.BirthDate, r.Sex, *r.Age, county)
	}
	_ = tw.Flush()
}
