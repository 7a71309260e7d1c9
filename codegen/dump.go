package codegen

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/GU-Student-Projects/CPSC326/vm"
)

// DumpTemplate pretty-prints one compiled FrameTemplate's instruction
// sequence. cmd/mplc's -debug flag uses vm.Dump() instead, which covers
// every registered template together with the heap state.
func DumpTemplate(t *vm.FrameTemplate) string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
	return cfg.Sdump(t)
}
