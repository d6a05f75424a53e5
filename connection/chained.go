package connection

import (
	"fmt"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/runner"
)

// ChainedConnection composes connections applied in sequence: the
// output discretization of each link feeds the next. A chain with no
// links is the identity transport on a single discretization.
type ChainedConnection struct {
	Links    []Connection
	from, to *discretization.Discretization
}

// NewChainedConnection validates link adjacency. An empty chain has no
// links to infer its discretization from, so identity chains take it as
// the optional argument.
func NewChainedConnection(links []Connection, discrO ...*discretization.Discretization) (cc *ChainedConnection, err error) {
	if len(links) == 0 {
		if len(discrO) == 0 {
			return nil, fmt.Errorf("an identity chain needs an explicit discretization")
		}
		cc = &ChainedConnection{
			from: discrO[0],
			to:   discrO[0],
		}
		return
	}
	for i := 0; i < len(links)-1; i++ {
		if links[i].ToDiscr() != links[i+1].FromDiscr() {
			return nil, fmt.Errorf("chain link %d ends on a different discretization than link %d starts on",
				i, i+1)
		}
	}
	cc = &ChainedConnection{
		Links: links,
		from:  links[0].FromDiscr(),
		to:    links[len(links)-1].ToDiscr(),
	}
	return
}

func (cc *ChainedConnection) FromDiscr() *discretization.Discretization { return cc.from }
func (cc *ChainedConnection) ToDiscr() *discretization.Discretization   { return cc.to }

// IsSurjective reports whether every link is onto; the identity chain is.
func (cc *ChainedConnection) IsSurjective() bool {
	for _, link := range cc.Links {
		if !link.IsSurjective() {
			return false
		}
	}
	return true
}

func (cc *ChainedConnection) Apply(field interface{}) (interface{}, error) {
	if len(cc.Links) == 0 {
		// identity still rejects non-field arguments
		return applyField(field, func(f *runner.DOFArray) (*runner.DOFArray, error) {
			return f, nil
		})
	}
	var err error
	for _, link := range cc.Links {
		if field, err = link.Apply(field); err != nil {
			return nil, err
		}
	}
	return field, nil
}
