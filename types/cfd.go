package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Neumann
)

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"dirichlet": BC_Dirichlet,
	"neumann":   BC_Neumann,
	"neuman":    BC_Neumann,
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_None:
		return "None"
	case BC_Dirichlet:
		return "Dirichlet"
	case BC_Neumann:
		return "Neumann"
	}
	return fmt.Sprintf("BCFLAG(%d)", bc)
}

func NewBCFLAG(name string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown boundary condition %q", name)
	}
	return
}
