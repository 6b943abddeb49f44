// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/config"
	"github.com/lassandro/gomips/pkg/encoding"
)

var helpvar bool
var debugvar bool
var listingvar bool
var verbosevar bool
var configvar string
var outvar string

const usage = "gomips-asm [-config file] [-debug] [-listing] [-v] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.mipsdb'",
	)
	flag.BoolVar(
		&listingvar, "listing", false,
		"Prints the label table and an address listing after assembling",
	)
	flag.BoolVar(&verbosevar, "v", false, "Traces both passes to stderr")
	flag.StringVar(&configvar, "config", "", "Loads settings from a YAML file")
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
}

func colorize(code string, text string) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return text
	}

	return "\033[" + code + "m" + text + "\033[0m"
}

// report prints a diagnostic along with the source line it refers to.
func report(err error, lines []string) {
	var tokenErr assembler.TokenError

	prefix := colorize("1;31", "error:")
	if assembler.IsWarning(err) {
		prefix = colorize("1;33", "warning:")
	}

	if !errors.As(err, &tokenErr) {
		log.Println(prefix, err)
		return
	}

	cursor := tokenErr.GetPosition()

	if cursor.Line < 1 || cursor.Line > len(lines) {
		log.Println(prefix, err)
		return
	}

	line := strings.TrimRight(lines[cursor.Line-1], "\r")
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	width := len(strings.TrimSpace(line))

	if width == 0 {
		width = 1
	}

	log.Printf(
		"%s %s\n%s\n%s",
		prefix,
		err,
		line,
		colorize("31", line[:indent]+"^"+strings.Repeat("~", width-1)),
	)
}

// isPiped reports whether file is readable input rather than a terminal. A
// file that cannot be stat'd is treated as a terminal.
func isPiped(file *os.File) bool {
	stat, err := file.Stat()

	if err != nil {
		return false
	}

	return stat.Mode()&os.ModeCharDevice == 0
}

func outputName(filename string, extension string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + extension
}

func gomips_asm() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	cfg := config.Default()

	if configvar != "" {
		var err error

		if cfg, err = config.Load(configvar); err != nil {
			log.Println(err)
			return 1
		}
	}

	if listingvar {
		cfg.Listing = true
	}

	if verbosevar {
		cfg.LogLevel = "debug"
	}

	args := flag.Args()

	var infile string
	var input io.Reader

	if len(args) == 0 && isPiped(os.Stdin) {
		input = os.Stdin
		log.SetPrefix("\033[1m<stdin>:\033[0m ")

		if outvar == "" {
			outvar = "out" + cfg.OutputExtension
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid MIPS assembly file", filename)
				return 1
			}
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m ", filename))

		if outvar == "" {
			outvar = outputName(infile, cfg.OutputExtension)
		}
	}

	source, err := io.ReadAll(input)

	if err != nil {
		log.Println(err)
		return 1
	}

	logger := slog.New(cfg.Handler(os.Stderr))

	symtable := assembler.NewSymTable()

	if debugvar && infile != "" {
		if symtable.Source, err = filepath.Abs(infile); err != nil {
			log.Println(err)
			symtable.Source = ""
		}
	}

	result, errs := assembler.AssembleMIPSSource(
		bytes.NewReader(source), symtable, cfg.AssemblerOptions(logger),
	)

	lines := strings.Split(string(source), "\n")

	for _, err := range errs {
		report(err, lines)
	}

	if assembler.HasErrors(errs) {
		return 1
	}

	if cfg.Listing {
		assembler.WriteListing(os.Stdout, symtable)
	}

	{
		buffer := new(bytes.Buffer)

		if err := encoding.WriteHexWords(buffer, result); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}

		if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}
	}

	logger.Info("assembled", "words", len(result), "out", outvar)

	if debugvar {
		filename := outputName(outvar, ".mipsdb")

		if file, err := os.Create(filename); err == nil {
			if err := gob.NewEncoder(file).Encode(symtable); err != nil {
				log.Println("Error writing symbol table")
				log.Println(err)
				file.Close()
				return 1
			}

			file.Close()
		} else {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(gomips_asm())
}
