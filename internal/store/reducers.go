package store

import "starlog/internal/model"

// Status event bitmask, as written by the game into the Flags field.
const (
	flagDocked           = 1 << 0
	flagLanded           = 1 << 1
	flagSupercruise      = 1 << 4
	flagFSDCharging      = 1 << 17
	flagFSDCooldown      = 1 << 18
	flagLowFuel          = 1 << 19
	flagOverheating      = 1 << 20
	flagInDanger         = 1 << 22
	flagBeingInterdicted = 1 << 23
	flagInFighter        = 1 << 25
	flagInSRV            = 1 << 26
	flagAnalysisMode     = 1 << 27
	flagNightVision      = 1 << 28
)

// reduceFn is a pure state update for one event type. Reducers read only the
// incoming event and write only their own concern; they never touch the
// event buffer.
type reduceFn func(state model.GameState, ev model.ProcessedEvent) model.GameState

// reducers is the static per-type reducer table.
var reducers = map[string]reduceFn{
	"FSDJump":          reduceJump,
	"CarrierJump":      reduceJump,
	"Docked":           reduceDocked,
	"Undocked":         reduceUndocked,
	"Touchdown":        reduceTouchdown,
	"Liftoff":          reduceLiftoff,
	"SupercruiseEntry": reduceSupercruiseEntry,
	"SupercruiseExit":  reduceSupercruiseExit,
	"LoadGame":         reduceLoadGame,
	"Loadout":          reduceLoadout,
	"ShipyardBuy":      reduceShipyardBuy,
	"ShipyardSwap":     reduceShipyardSwap,
	"Location":         reduceLocation,
	"Status":           reduceStatus,
	"Commander":        reduceCommander,
	"Cargo":            reduceCargo,
	"FuelScoop":        reduceFuelScoop,
	"RefuelAll":        reduceRefuel,
}

func reduceJump(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if sys, ok := ev.KeyData["system"].(string); ok {
		state.CurrentSystem = sys
	}
	state.CurrentStation = ""
	state.CurrentBody = ""
	state.Status.Docked = false
	state.Status.Supercruise = true
	if pos, ok := ev.KeyData["star_pos"].([]any); ok && len(pos) == 3 {
		coords := make([]float64, 0, 3)
		for _, p := range pos {
			if f, ok := p.(float64); ok {
				coords = append(coords, f)
			}
		}
		if len(coords) == 3 {
			state.Coordinates = coords
		}
	}
	if lvl, ok := ev.KeyData["fuel_level"].(float64); ok {
		state.FuelLevel = lvl
	}
	return state
}

func reduceDocked(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if st, ok := ev.KeyData["station"].(string); ok {
		state.CurrentStation = st
	}
	if sys, ok := ev.KeyData["system"].(string); ok {
		state.CurrentSystem = sys
	}
	state.Status.Docked = true
	state.Status.Supercruise = false
	state.Status.Landed = false
	return state
}

func reduceUndocked(state model.GameState, ev model.ProcessedEvent) model.GameState {
	state.CurrentStation = ""
	state.Status.Docked = false
	return state
}

func reduceTouchdown(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if b, ok := ev.KeyData["body"].(string); ok {
		state.CurrentBody = b
	}
	state.Status.Landed = true
	state.Status.Supercruise = false
	return state
}

func reduceLiftoff(state model.GameState, ev model.ProcessedEvent) model.GameState {
	state.Status.Landed = false
	return state
}

func reduceSupercruiseEntry(state model.GameState, ev model.ProcessedEvent) model.GameState {
	state.Status.Supercruise = true
	state.Status.Docked = false
	state.Status.Landed = false
	return state
}

func reduceSupercruiseExit(state model.GameState, ev model.ProcessedEvent) model.GameState {
	state.Status.Supercruise = false
	if b, ok := ev.KeyData["body"].(string); ok {
		state.CurrentBody = b
	}
	return state
}

func reduceLoadGame(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if c, ok := ev.KeyData["commander"].(string); ok {
		state.Commander = c
	}
	if ship, ok := ev.KeyData["ship"].(string); ok {
		state.ShipType = ship
	}
	if name, ok := ev.KeyData["ship_name"].(string); ok {
		state.ShipName = name
	}
	if cr, ok := ev.KeyData["credits"].(int64); ok {
		state.Credits = cr
	}
	if loan, ok := ev.KeyData["loan"].(int64); ok {
		state.Loan = loan
	}
	if lvl, ok := ev.KeyData["fuel_level"].(float64); ok {
		state.FuelLevel = lvl
	}
	if cap, ok := ev.KeyData["fuel_capacity"].(float64); ok {
		state.FuelCapacity = cap
	}
	return state
}

func reduceLoadout(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if ship, ok := ev.KeyData["ship"].(string); ok {
		state.ShipType = ship
	}
	if name, ok := ev.KeyData["ship_name"].(string); ok {
		state.ShipName = name
	}
	if ident, ok := ev.KeyData["ship_ident"].(string); ok {
		state.ShipIdent = ident
	}
	if id, ok := ev.KeyData["ship_id"].(int64); ok {
		state.ShipID = id
	}
	if cap, ok := ev.KeyData["cargo_capacity"].(int64); ok {
		state.CargoCapacity = int(cap)
	}
	if mods, ok := ev.KeyData["modules"].([]string); ok {
		state.Modules = mods
	}
	return state
}

func reduceShipyardBuy(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if ship, ok := ev.KeyData["ship"].(string); ok {
		state.ShipType = ship
	}
	state.ShipName = ""
	state.ShipIdent = ""
	state.Modules = nil
	return state
}

func reduceShipyardSwap(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if ship, ok := ev.KeyData["ship"].(string); ok {
		state.ShipType = ship
	}
	if id, ok := ev.KeyData["ship_id"].(int64); ok {
		state.ShipID = id
	}
	state.Modules = nil
	return state
}

// reduceLocation does a best-effort fill from whichever fields are present.
func reduceLocation(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if sys, ok := ev.KeyData["system"].(string); ok {
		state.CurrentSystem = sys
	}
	if b, ok := ev.KeyData["body"].(string); ok {
		state.CurrentBody = b
	}
	if st, ok := ev.KeyData["station"].(string); ok {
		state.CurrentStation = st
	}
	if d, ok := ev.KeyData["docked"].(bool); ok {
		state.Status.Docked = d
	}
	return state
}

// reduceStatus decodes the flag bitmask into the full boolean flag set.
func reduceStatus(state model.GameState, ev model.ProcessedEvent) model.GameState {
	flags, ok := ev.KeyData["flags"].(int64)
	if !ok {
		return state
	}
	state.Status = model.StatusFlags{
		Docked:           flags&flagDocked != 0,
		Landed:           flags&flagLanded != 0,
		InSRV:            flags&flagInSRV != 0,
		InFighter:        flags&flagInFighter != 0,
		Supercruise:      flags&flagSupercruise != 0,
		FSDCharging:      flags&flagFSDCharging != 0,
		FSDCooldown:      flags&flagFSDCooldown != 0,
		LowFuel:          flags&flagLowFuel != 0,
		Overheating:      flags&flagOverheating != 0,
		InDanger:         flags&flagInDanger != 0,
		BeingInterdicted: flags&flagBeingInterdicted != 0,
		AnalysisMode:     flags&flagAnalysisMode != 0,
		NightVision:      flags&flagNightVision != 0,
	}
	if fuel, ok := ev.KeyData["fuel_main"].(float64); ok {
		state.FuelLevel = fuel
	}
	return state
}

func reduceCommander(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if n, ok := ev.KeyData["name"].(string); ok {
		state.Commander = n
	}
	return state
}

func reduceCargo(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if n, ok := ev.KeyData["count"].(int64); ok {
		state.CargoCount = int(n)
	}
	return state
}

func reduceFuelScoop(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if total, ok := ev.KeyData["total"].(float64); ok {
		state.FuelLevel = total
	}
	return state
}

func reduceRefuel(state model.GameState, ev model.ProcessedEvent) model.GameState {
	if state.FuelCapacity > 0 {
		state.FuelLevel = state.FuelCapacity
	}
	return state
}
