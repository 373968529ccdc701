package model

import "time"

// StatusFlags is the decoded flag set from the game's Status event bitmask.
type StatusFlags struct {
	Docked           bool `json:"docked"`
	Landed           bool `json:"landed"`
	InSRV            bool `json:"in_srv"`
	InFighter        bool `json:"in_fighter"`
	Supercruise      bool `json:"supercruise"`
	FSDCharging      bool `json:"fsd_charging"`
	FSDCooldown      bool `json:"fsd_cooldown"`
	LowFuel          bool `json:"low_fuel"`
	Overheating      bool `json:"overheating"`
	InDanger         bool `json:"in_danger"`
	BeingInterdicted bool `json:"being_interdicted"`
	AnalysisMode     bool `json:"analysis_mode"`
	NightVision      bool `json:"night_vision"`
}

// GameState is the single current-snapshot view derived by replaying reducers
// over the event stream. It is owned exclusively by the store; callers always
// receive a copy.
type GameState struct {
	CurrentSystem  string      `json:"current_system"`
	CurrentStation string      `json:"current_station"`
	CurrentBody    string      `json:"current_body"`
	Coordinates    []float64   `json:"coordinates,omitempty"` // x, y, z in ly
	ShipType       string      `json:"ship_type"`
	ShipName       string      `json:"ship_name"`
	ShipIdent      string      `json:"ship_ident"`
	ShipID         int64       `json:"ship_id"`
	Modules        []string    `json:"modules,omitempty"`
	Status         StatusFlags `json:"status"`
	Commander      string      `json:"commander"`
	Credits        int64       `json:"credits"`
	Loan           int64       `json:"loan"`
	CargoCapacity  int         `json:"cargo_capacity"`
	CargoCount     int         `json:"cargo_count"`
	FuelLevel      float64     `json:"fuel_level"`
	FuelCapacity   float64     `json:"fuel_capacity"`
	LastUpdated    time.Time   `json:"last_updated"`
}

// Copy returns a deep copy so external mutation cannot leak back into shared state.
func (g GameState) Copy() GameState {
	out := g
	if g.Coordinates != nil {
		out.Coordinates = make([]float64, len(g.Coordinates))
		copy(out.Coordinates, g.Coordinates)
	}
	if g.Modules != nil {
		out.Modules = make([]string, len(g.Modules))
		copy(out.Modules, g.Modules)
	}
	return out
}
