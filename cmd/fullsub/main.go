package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	"github.com/smasher164/fullsub/fullsub"
)

var (
	smallStep = flag.Bool("small-step", false, "run small-step evaluator")
	bigStep   = flag.Bool("big-step", false, "run big-step evaluator")
	trace     = flag.Bool("trace", false, "log every small-step reduction")
	debug     = flag.Bool("debug", false, "dump the syntax tree of every statement")
)

const historyFile = ".fullsub_history"

func usage() {
	fmt.Fprint(os.Stderr, "usage: fullsub ( -small-step | -big-step ) [-trace] [-debug] [file]\n\n")
	fmt.Fprint(os.Stderr, "fullsub is an implementation of the simply-typed lambda calculus with\n")
	fmt.Fprint(os.Stderr, "records, Top and subtyping (TAPL chapters 15-16).\n")
	fmt.Fprint(os.Stderr, "Without a file it starts an interactive session.\n")
	os.Exit(2)
}

func errExit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// session holds the top-level context shared by the statements of a file
// or of a REPL run.
type session struct {
	ctx     fullsub.Context
	out     io.Writer
	errOut  io.Writer
	bigStep bool
	debug   bool
	logger  *log.Logger
}

// run processes every statement of src in order. A failing statement is
// reported and skipped. It returns false if any statement failed.
func (s *session) run(src []byte) bool {
	p := fullsub.NewParser(src)
	ok := true
	for {
		cmd, next, err := p.Next(s.ctx)
		if err == io.EOF {
			return ok
		}
		if err == nil {
			if s.debug {
				spew.Fdump(s.errOut, cmd)
			}
			err = s.exec(cmd, next)
		}
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			ok = false
		}
	}
}

func (s *session) exec(cmd fullsub.Command, next fullsub.Context) error {
	s.ctx = next
	switch cmd := cmd.(type) {
	case fullsub.BindCmd:
		switch b := cmd.Binding.(type) {
		case fullsub.VarBind:
			fmt.Fprintf(s.out, "%s : %s\n", cmd.Name, b.Ty)
		case fullsub.NameBind:
			fmt.Fprintf(s.out, "%s /\n", cmd.Name)
		}
		return nil
	case fullsub.EvalCmd:
		ty, err := fullsub.TypeOf(s.ctx, cmd.Term)
		if err != nil {
			return err
		}
		v, err := s.eval(cmd.Term)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s : %s\n", v.ContextString(s.ctx), ty)
		return nil
	}
	panic("unreachable")
}

func (s *session) eval(t fullsub.Term) (fullsub.Term, error) {
	if s.bigStep {
		return fullsub.EvalBigStep(t)
	}
	if s.logger == nil {
		return fullsub.Eval(t)
	}
	return fullsub.EvalTrace(t, func(t fullsub.Term) {
		s.logger.Println(t.ContextString(s.ctx))
	})
}

func (s *session) repl() {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return
		}
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			return
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		s.run([]byte(line))
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *smallStep == *bigStep {
		usage()
	}
	args := flag.Args()
	if len(args) > 1 {
		usage()
	}
	s := &session{
		out:     os.Stdout,
		errOut:  os.Stderr,
		bigStep: *bigStep,
		debug:   *debug,
	}
	if *trace {
		s.logger = log.New(os.Stderr, "step: ", 0)
	}
	if len(args) == 0 {
		s.repl()
		return
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		errExit(err)
	}
	if !s.run(b) {
		os.Exit(1)
	}
}
