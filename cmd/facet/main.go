// Command facet runs a facet geometry script and prints the query results.
//
//	facet [-config facet.json] [-json] [-meshes] script.facet
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	asJSON := flag.Bool("json", false, "print the full report as JSON")
	meshes := flag.Bool("meshes", false, "tessellate every defined solid")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: facet [-config file] [-json] [-meshes] script.facet")
		os.Exit(2)
	}

	conf, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalln(err)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	app, err := NewApp(conf)
	if err != nil {
		log.Fatalln(err)
	}
	report := app.Evaluate(string(source), *meshes)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalln(err)
		}
	} else {
		printReport(report)
	}

	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}

func printReport(r Report) {
	for _, e := range r.Errors {
		if e.Line > 0 {
			log.Printf("error: line %d: %s", e.Line, e.Message)
		} else {
			log.Printf("error: %s", e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Shape != "" {
			log.Printf("warning: %s: %s", w.Shape, w.Message)
		} else {
			log.Printf("warning: %s", w.Message)
		}
	}
	if len(r.Summary) > 0 {
		fmt.Println("shapes:", strings.Join(r.Summary, " "))
	}
	for i, q := range r.Queries {
		fmt.Printf("%3d %s\n", i, formatQuery(q))
	}
	for _, m := range r.Meshes {
		fmt.Printf("mesh %s: %d triangles (%d skipped)\n", m.Name, m.Triangles, m.Skipped)
	}
}

func formatQuery(q QueryData) string {
	var b strings.Builder
	b.WriteString(q.Op)
	if len(q.Shapes) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(q.Shapes, " "))
	}
	b.WriteString(": ")
	switch {
	case q.Error != "":
		b.WriteString("error: " + q.Error)
	case !q.OK && len(q.Points) == 0:
		b.WriteString("no result")
	default:
		if !q.OK {
			b.WriteString("false ")
		}
		for _, p := range q.Points {
			fmt.Fprintf(&b, "(%g %g %g) ", p[0], p[1], p[2])
		}
		for _, s := range q.Scalars {
			fmt.Fprintf(&b, "%g ", s)
		}
		if q.OK && len(q.Points) == 0 && len(q.Scalars) == 0 {
			b.WriteString("true")
		}
	}
	return strings.TrimSpace(b.String())
}
