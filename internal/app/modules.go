package app

import (
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/specialistvlad/gamreg/modules/pid"
	"github.com/specialistvlad/gamreg/modules/pwmout"
)

// coreModules returns fresh instances of all modules that are compiled into
// the gamreg binary.
func coreModules() []gam.Module {
	return []gam.Module{
		pid.New(),
		pwmout.New(),
	}
}
