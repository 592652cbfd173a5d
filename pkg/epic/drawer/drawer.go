// Package drawer renders the act sequence of an epic run as a DOT graph,
// colouring acts by kind so transaction boundaries stand out.
package drawer

import (
	"os"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// DOTDrawer is an epic option that writes the observed act sequence to a DOT
// file when the run finishes. Graphviz turns the output into an SVG.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	acts     map[string]struct{}
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
		acts:     make(map[string]struct{}),
	}
}

// New implements epic.Option.
func (d *DOTDrawer) New() error {
	return nil
}

// PrepareAct implements epic.Option. It adds the act to the graph and links
// it to the act that ran before it.
func (d *DOTDrawer) PrepareAct(prev, act epic.Info) error {
	err := d.addAct(act)
	if err != nil {
		return err
	}

	// The synthetic start sentinel never becomes a vertex, so the first act
	// simply has no incoming edge.
	if prev == epic.Start || prev.Name == "" || prev.Name == act.Name {
		return nil
	}
	err = d.graph.AddEdge(prev.Name, act.Name)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", prev.Name, act.Name)
	}

	return nil
}

func (d *DOTDrawer) addAct(act epic.Info) error {
	if _, ok := d.acts[act.Name]; ok {
		return nil
	}

	fill, err := kindColour(act.Kind)
	if err != nil {
		return err
	}
	err = d.graph.AddVertex(act.Name,
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", fill),
	)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add vertex %s", act.Name)
	}
	d.acts[act.Name] = struct{}{}

	return nil
}

// OnActDone implements epic.Option. It labels the act with its duration.
func (d *DOTDrawer) OnActDone(act epic.Info, elapsed time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(act.Name)
	if err != nil {
		return errors.Wrapf(err, "unable to get vertex properties for %s", act.Name)
	}
	properties.Attributes["xlabel"] = elapsed.String()

	return nil
}

// Finish implements epic.Option. It writes the DOT file.
func (d *DOTDrawer) Finish() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.fileName)
	}

	return nil
}

// kindColour shades transactional acts red and ordinary acts blue, with the
// boundary sentinels in between.
func kindColour(kind epic.Kind) (string, error) {
	var red uint8
	switch kind {
	case epic.KindBegin, epic.KindCommit:
		red = 240
	case epic.KindWork, epic.KindDelete:
		red = 160
	default:
		red = 40
	}

	c, err := colors.RGB(red, 80, 240-red) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return c.ToHEX().String(), nil
}
