package layout

import (
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	"github.com/ariya/phantomjs-sub051/utils"
)

// descendantIndex tracks a many-to-many relation between containers and
// some of their descendants (positioned boxes, boxes with percent heights).
// Both directions are indexed so that removing either side is cheap.
type descendantIndex struct {
	byContainer  map[bo.BoxIndex]utils.IntSet
	byDescendant map[bo.BoxIndex]utils.IntSet
}

func newDescendantIndex() descendantIndex {
	return descendantIndex{
		byContainer:  map[bo.BoxIndex]utils.IntSet{},
		byDescendant: map[bo.BoxIndex]utils.IntSet{},
	}
}

func (d descendantIndex) add(container, descendant bo.BoxIndex) {
	set := d.byContainer[container]
	if set == nil {
		set = utils.NewIntSet()
		d.byContainer[container] = set
	}
	set.Add(int(descendant))

	set = d.byDescendant[descendant]
	if set == nil {
		set = utils.NewIntSet()
		d.byDescendant[descendant] = set
	}
	set.Add(int(container))
}

func (d descendantIndex) remove(container, descendant bo.BoxIndex) {
	if set := d.byContainer[container]; set != nil {
		set.Delete(int(descendant))
		if len(set) == 0 {
			delete(d.byContainer, container)
		}
	}
	if set := d.byDescendant[descendant]; set != nil {
		set.Delete(int(container))
		if len(set) == 0 {
			delete(d.byDescendant, descendant)
		}
	}
}

// removeBox drops [i] from the relation, on both sides.
func (d descendantIndex) removeBox(i bo.BoxIndex) {
	for _, desc := range d.descendants(i) {
		d.remove(i, desc)
	}
	for _, cont := range d.containers(i) {
		d.remove(cont, i)
	}
}

func (d descendantIndex) has(container, descendant bo.BoxIndex) bool {
	return d.byContainer[container].Has(int(descendant))
}

// descendants returns the descendants tracked by [container], sorted by index.
func (d descendantIndex) descendants(container bo.BoxIndex) []bo.BoxIndex {
	return toBoxes(d.byContainer[container].Sorted())
}

// containers returns the containers tracking [descendant], sorted by index.
func (d descendantIndex) containers(descendant bo.BoxIndex) []bo.BoxIndex {
	return toBoxes(d.byDescendant[descendant].Sorted())
}

func toBoxes(l []int) []bo.BoxIndex {
	if len(l) == 0 {
		return nil
	}
	out := make([]bo.BoxIndex, len(l))
	for i, v := range l {
		out[i] = bo.BoxIndex(v)
	}
	return out
}
