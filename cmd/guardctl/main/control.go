/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"mosn.io/deserguard/pkg/config"
	"mosn.io/deserguard/pkg/metrics"
	"mosn.io/deserguard/pkg/metrics/sink/console"
	"mosn.io/deserguard/pkg/metrics/sink/prometheus"
	"mosn.io/deserguard/pkg/protocol/objectstream"
	"mosn.io/deserguard/pkg/protocol/serialize"
	"mosn.io/deserguard/pkg/resolver"
	"mosn.io/deserguard/pkg/types"
)

// exit codes of check
const (
	exitBlocked  = 2
	exitNotFound = 3
	exitInvalid  = 4
)

var (
	configFlag = cli.StringFlag{
		Name:   "config, c",
		Usage:  "Load configuration from `FILE`",
		EnvVar: "GUARD_CONFIG",
	}

	cmdDenylist = cli.Command{
		Name:  "denylist",
		Usage: "print the effective denylist",
		Flags: []cli.Flag{configFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			return printDenylist(c.App.Writer, cfg)
		},
	}

	cmdCheck = cli.Command{
		Name:      "check",
		Usage:     "read an object stream and report every resolved object",
		ArgsUsage: "<stream file>",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "metrics, m",
				Usage: "dump resolver metrics after the check: console or prometheus",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.NewExitError("check needs exactly one stream file", 1)
			}
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			defer f.Close()
			return runCheck(c.App.Writer, cfg, bufio.NewReader(f), c.String("metrics"))
		},
	}

	cmdEncode = cli.Command{
		Name:      "encode",
		Usage:     "write a json object stream from lines of '<class name> <json value>', a quoted class name keeps its spaces",
		ArgsUsage: "<input file> <stream file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.NewExitError("encode needs an input file and a stream file", 1)
			}
			in, err := os.Open(c.Args().Get(0))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			defer in.Close()
			out, err := os.Create(c.Args().Get(1))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			defer out.Close()
			n, err := runEncode(in, out)
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			fmt.Fprintf(c.App.Writer, "%d objects written\n", n)
			return nil
		},
	}
)

func loadConfig(path string) (*config.GuardConfig, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.SetupLog(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printDenylist(w io.Writer, cfg *config.GuardConfig) error {
	for _, entry := range cfg.BuildDenylist().Entries() {
		if _, err := fmt.Fprintf(w, "%q\n", entry); err != nil {
			return err
		}
	}
	return nil
}

func runCheck(w io.Writer, cfg *config.GuardConfig, r io.Reader, metricsFormat string) error {
	var sink types.MetricsSink
	switch metricsFormat {
	case "":
	case "console":
		sink = console.NewConsoleSink()
	case "prometheus":
		sink = prometheus.NewPromeSink("")
	default:
		return cli.NewExitError(fmt.Sprintf("unknown metrics format %s", metricsFormat), 1)
	}

	res, err := cfg.NewResolver()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	in := objectstream.NewObjectInputStream(r, res)
	var readErr error
	for {
		obj, err := in.ReadObject()
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}
		fmt.Fprintf(w, "%d\t%T\t%v\n", in.Count()-1, obj, obj)
	}

	if sink != nil {
		if err := sink.Flush(w, metrics.GetAll()); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}

	switch {
	case readErr == nil:
		fmt.Fprintf(w, "%d objects ok\n", in.Count())
		return nil
	case resolver.IsBlocked(readErr):
		return cli.NewExitError(fmt.Sprintf("BLOCKED: %v", readErr), exitBlocked)
	case resolver.IsClassNotFound(readErr):
		return cli.NewExitError(fmt.Sprintf("NOT FOUND: %v", readErr), exitNotFound)
	default:
		return cli.NewExitError(fmt.Sprintf("INVALID: %v", readErr), exitInvalid)
	}
}

// runEncode reads '<class name> <json value>' lines, empty lines and lines
// starting with # are skipped
func runEncode(r io.Reader, w io.Writer) (int, error) {
	s, _ := serialize.Get(serialize.JSONID)
	out := objectstream.NewObjectOutputStream(w, s)
	scanner := bufio.NewScanner(r)
	n := 0
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		class, value, err := parseEncodeLine(text)
		if err != nil {
			return n, fmt.Errorf("line %d: %v", line, err)
		}
		if err := out.WriteRaw(serialize.JSONID, class, []byte(value)); err != nil {
			return n, fmt.Errorf("line %d: %v", line, err)
		}
		n++
	}
	return n, scanner.Err()
}

// parseEncodeLine splits a line into class name and json value. The class
// name is either a bare word or a Go quoted string, as printed by denylist.
func parseEncodeLine(text string) (string, string, error) {
	var class, rest string
	if strings.HasPrefix(text, `"`) {
		quoted, err := strconv.QuotedPrefix(text)
		if err != nil {
			return "", "", fmt.Errorf("bad quoted class name: %v", err)
		}
		if class, err = strconv.Unquote(quoted); err != nil {
			return "", "", fmt.Errorf("bad quoted class name: %v", err)
		}
		rest = text[len(quoted):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			return "", "", fmt.Errorf("want a space after the quoted class name")
		}
	} else {
		parts := strings.SplitN(text, " ", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("want '<class name> <json value>'")
		}
		class, rest = parts[0], parts[1]
	}
	rest = strings.TrimSpace(rest)
	if class == "" || rest == "" {
		return "", "", fmt.Errorf("want '<class name> <json value>'")
	}
	return class, rest, nil
}
