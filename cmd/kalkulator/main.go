// Command kalkulator solves arithmetic expressions, single-variable
// equations, and a few shapes of textual math problems, keeping a history of
// everything it answered.
//
// Inputs come from the command line arguments, or from standard input or a
// file (one task per line) when no arguments are given. Bad input never
// stops the run; it answers with an error message like any other result.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	kalk "github.com/nikolapetrovic58760-cpu/Pametni-kalkulator"
	"github.com/nikolapetrovic58760-cpu/Pametni-kalkulator/history"
	"github.com/nikolapetrovic58760-cpu/Pametni-kalkulator/wordprob"
)

var demos = map[string]string{
	"expr":     "(5 + 3) * 2 - 4^2",
	"equation": "3*x - 6 = 12",
	"text":     "A car travels 60 km/h, how far does it go in 2 hours?",
}

func main() {
	log.SetFlags(0)
	var (
		mode, inname, verb, savepath string
		prec                         int
		demo                         bool
	)
	flag.StringVar(&mode, "mode", "expr", "solver mode: expr, equation, or text")
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string for expr mode")
	flag.IntVar(&prec, "p", 64, "precision of calculations in bits")
	flag.StringVar(&savepath, "save", "", "write the history log to this file at exit")
	flag.BoolVar(&demo, "demo", false, "print a sample task for the mode and exit")
	flag.Parse()
	if _, ok := demos[mode]; !ok {
		log.Fatalf("unknown mode %q (want expr, equation, or text)", mode)
	}
	if prec < 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	if demo {
		fmt.Println(demos[mode])
		return
	}

	var inputs []string
	if flag.NArg() > 0 {
		inputs = flag.Args()
	} else {
		in, err := infile(inname)
		if err != nil {
			log.Fatal(err)
		}
		scan := bufio.NewScanner(in)
		for scan.Scan() {
			inputs = append(inputs, scan.Text())
		}
		if err := scan.Err(); err != nil {
			log.Fatal(err)
		}
	}

	var hist history.Log
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			log.Println("enter a task first")
			continue
		}
		out := solve(mode, input, verb, uint(prec))
		fmt.Println(out)
		hist.Append(mode, input, out)
	}

	if savepath != "" {
		if err := hist.Save(savepath); err != nil {
			log.Fatal(err)
		}
	}
}

// solve answers one input in the given mode. The result is always text; a
// failure becomes its message.
func solve(mode, input, verb string, prec uint) string {
	switch mode {
	case "expr":
		r, err := kalk.Evaluate(input, kalk.Prec(prec))
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf(verb, r)
	case "equation":
		s, err := kalk.SolveEquation(input)
		if err != nil {
			return "cannot solve equation: " + err.Error()
		}
		return s.String()
	case "text":
		return wordprob.Solve(input)
	default:
		panic("kalkulator: unknown mode " + mode)
	}
}

func infile(inname string) (io.Reader, error) {
	if inname == "" || inname == "-" {
		return os.Stdin, nil
	}
	return os.Open(inname)
}
