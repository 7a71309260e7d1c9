package vm

import (
	"github.com/davecgh/go-spew/spew"
)

// Dump pretty-prints every registered frame template and the current
// heap contents, the VM's analogue of the source toolchain's
// `VM.__repr__` — done with a real pretty-dump library rather than
// hand-rolled recursive formatting.
func (vm *VM) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
	return cfg.Sdump(map[string]interface{}{
		"templates":  vm.frameTemplates,
		"structHeap": vm.structHeap,
		"arrayHeap":  vm.arrayHeap,
		"nextOID":    vm.nextOID,
	})
}
