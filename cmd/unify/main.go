package main

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/agentspeak/reason/codec"
)

// Version is a version of this build.
var Version = "unify/0.1"

func main() {
	var verbose, destructive, version bool
	pflag.BoolVarP(&verbose, "verbose", "v", false, `verbose`)
	pflag.BoolVar(&destructive, "destructive", false, `keep partial bindings of failed unifications`)
	pflag.BoolVar(&version, "version", false, `print the version and exit`)
	pflag.Parse()

	if version {
		_, _ = os.Stdout.WriteString(Version + "\n")
		return
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	r := runner{
		out:         os.Stdout,
		destructive: destructive,
		pretty:      terminal.IsTerminal(int(os.Stdout.Fd())),
	}

	if pflag.NArg() == 0 {
		if terminal.IsTerminal(int(os.Stdin.Fd())) {
			if err := interact(&r); err != nil {
				logrus.WithError(err).Fatal("failed to interact")
			}
			return
		}
		pass, err := runFile(&r, "-", os.Stdin)
		if err != nil {
			logrus.WithError(err).Fatal("failed to run")
		}
		if !pass {
			os.Exit(1)
		}
		return
	}

	pass := true
	for _, a := range pflag.Args() {
		f, err := os.Open(a)
		if err != nil {
			logrus.WithError(err).WithField("file", a).Fatal("failed to open")
		}
		ok, err := runFile(&r, a, bufio.NewReader(f))
		_ = f.Close()
		if err != nil {
			logrus.WithError(err).WithField("file", a).Fatal("failed to run")
		}
		pass = pass && ok
	}
	if err := r.close(); err != nil {
		logrus.WithError(err).Fatal("failed to write")
	}
	if !pass {
		os.Exit(1)
	}
}

func runFile(r *runner, name string, in io.Reader) (bool, error) {
	cs, err := codec.ReadCases(in)
	if err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{
		"file":  name,
		"cases": len(cs),
	}).Debug("read cases")
	pass, err := r.run(cs)
	if err != nil {
		return false, err
	}
	if name == "-" {
		return pass, r.close()
	}
	return pass, nil
}

func interact(r *runner) error {
	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		return err
	}
	defer func() {
		_ = terminal.Restore(0, oldState)
	}()

	t := terminal.NewTerminal(os.Stdin, "?- ")
	defer func() {
		_, _ = t.Write([]byte("\n"))
	}()

	logrus.SetOutput(t)
	r.out = t
	r.pretty = true

	s := session{runner: r}
	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := s.handleLine(line); err != nil {
			logrus.WithError(err).Error("failed to handle line")
		}
	}
}
