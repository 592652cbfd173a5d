package drawer

import (
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

const dotTemplate = `strict digraph {
	{{range $s := .Statements}}
	"{{.Source}}" {{if .Target}}-> "{{.Target}}"{{else}}[ {{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}{{if .Label}}label={{.Label}}{{end}} ]{{end}};
	{{end}}
}
`

type statement struct {
	Source     string
	Target     string
	Label      string
	Attributes map[string]string
}

type description struct {
	Statements []statement
}

func dot(g graph.Graph[string, string], wrt io.Writer) error {
	desc, err := generateDOT(g)
	if err != nil {
		return err
	}

	return renderDOT(wrt, desc)
}

func generateDOT(g graph.Graph[string, string]) (description, error) {
	desc := description{}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, properties, err := g.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		stmt := statement{
			Source:     vertex,
			Attributes: properties.Attributes,
		}
		if xlabel, ok := properties.Attributes["xlabel"]; ok {
			stmt.Label = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)
			delete(properties.Attributes, "xlabel")
		}
		desc.Statements = append(desc.Statements, stmt)

		adjacencies := adjacencyMap[vertex]
		targets := make([]string, 0, len(adjacencies))
		for target := range adjacencies {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			desc.Statements = append(desc.Statements, statement{
				Source: vertex,
				Target: target,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	return tpl.Execute(wrt, desc)
}
