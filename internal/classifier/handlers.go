package classifier

import (
	"fmt"

	"starlog/internal/model"
)

// handler extracts the curated key-data subset for one event type and renders
// its one-line summary. Types without a handler get empty key data and the
// generic "<type> event occurred" sentence.
type handler struct {
	extract   func(r model.RawRecord) map[string]any
	summarize func(r model.RawRecord, kd map[string]any) string
}

// handlers is the static per-type dispatch table.
var handlers = map[string]handler{
	"FSDJump": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "system", "StarSystem")
			putNum(kd, r, "jump_distance", "JumpDist")
			putNum(kd, r, "fuel_used", "FuelUsed")
			putNum(kd, r, "fuel_level", "FuelLevel")
			if pos, ok := r["StarPos"].([]any); ok {
				kd["star_pos"] = pos
			}
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Jumped"
			if sys, ok := kd["system"].(string); ok {
				s += " to " + sys
			}
			if d, ok := kd["jump_distance"].(float64); ok {
				s += fmt.Sprintf(" (%.2f ly)", d)
			}
			return s
		},
	},
	"Docked": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "station", "StationName")
			putStr(kd, r, "system", "StarSystem")
			putStr(kd, r, "station_type", "StationType")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Docked"
			if st, ok := kd["station"].(string); ok {
				s += " at " + st
			}
			if sys, ok := kd["system"].(string); ok {
				s += " in " + sys
			}
			return s
		},
	},
	"Undocked": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "station", "StationName")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if st, ok := kd["station"].(string); ok {
				return "Undocked from " + st
			}
			return "Undocked"
		},
	},
	"Touchdown": {
		extract: extractLanding,
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if b, ok := kd["body"].(string); ok {
				return "Touched down on " + b
			}
			return "Touched down"
		},
	},
	"Liftoff": {
		extract: extractLanding,
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if b, ok := kd["body"].(string); ok {
				return "Lifted off from " + b
			}
			return "Lifted off"
		},
	},
	"Location": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "system", "StarSystem")
			putStr(kd, r, "body", "Body")
			putStr(kd, r, "station", "StationName")
			putBool(kd, r, "docked", "Docked")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if sys, ok := kd["system"].(string); ok {
				return "Located in " + sys
			}
			return "Location updated"
		},
	},
	"SupercruiseEntry": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "system", "StarSystem")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			return "Entered supercruise"
		},
	},
	"SupercruiseExit": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "system", "StarSystem")
			putStr(kd, r, "body", "Body")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if b, ok := kd["body"].(string); ok {
				return "Dropped from supercruise near " + b
			}
			return "Dropped from supercruise"
		},
	},
	"LoadGame": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "commander", "Commander")
			putStr(kd, r, "ship", "Ship")
			putStr(kd, r, "ship_name", "ShipName")
			putInt(kd, r, "credits", "Credits")
			putInt(kd, r, "loan", "Loan")
			putNum(kd, r, "fuel_level", "FuelLevel")
			putNum(kd, r, "fuel_capacity", "FuelCapacity")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Game loaded"
			if c, ok := kd["commander"].(string); ok {
				s += " as CMDR " + c
			}
			if ship, ok := kd["ship"].(string); ok {
				s += " in " + ship
			}
			return s
		},
	},
	"Loadout": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "ship", "Ship")
			putStr(kd, r, "ship_name", "ShipName")
			putStr(kd, r, "ship_ident", "ShipIdent")
			putInt(kd, r, "ship_id", "ShipID")
			putInt(kd, r, "cargo_capacity", "CargoCapacity")
			if mods, ok := r["Modules"].([]any); ok {
				names := make([]string, 0, len(mods))
				for _, m := range mods {
					if mm, ok := m.(map[string]any); ok {
						if item, ok := mm["Item"].(string); ok {
							names = append(names, item)
						}
					}
				}
				kd["modules"] = names
			}
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if ship, ok := kd["ship"].(string); ok {
				return "Loadout updated for " + ship
			}
			return "Ship loadout updated"
		},
	},
	"ShipyardBuy": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "ship", "ShipType")
			putInt(kd, r, "price", "ShipPrice")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Purchased"
			if ship, ok := kd["ship"].(string); ok {
				s += " a " + ship
			} else {
				s += " a ship"
			}
			if p, ok := kd["price"].(int64); ok {
				s += " for " + credits(p)
			}
			return s
		},
	},
	"ShipyardSwap": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "ship", "ShipType")
			putInt(kd, r, "ship_id", "ShipID")
			putStr(kd, r, "stored_ship", "StoreOldShip")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if ship, ok := kd["ship"].(string); ok {
				return "Swapped to " + ship
			}
			return "Swapped ships"
		},
	},
	"MarketBuy": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "commodity", "Type")
			putInt(kd, r, "count", "Count")
			putInt(kd, r, "price", "BuyPrice")
			putInt(kd, r, "total", "TotalCost")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Bought"
			if n, ok := kd["count"].(int64); ok {
				s += fmt.Sprintf(" %d", n)
			}
			if c, ok := kd["commodity"].(string); ok {
				s += " " + c
			} else {
				s += " cargo"
			}
			if t, ok := kd["total"].(int64); ok {
				s += " for " + credits(t)
			}
			return s
		},
	},
	"MarketSell": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "commodity", "Type")
			putInt(kd, r, "count", "Count")
			putInt(kd, r, "price", "SellPrice")
			putInt(kd, r, "total", "TotalSale")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Sold"
			if n, ok := kd["count"].(int64); ok {
				s += fmt.Sprintf(" %d", n)
			}
			if c, ok := kd["commodity"].(string); ok {
				s += " " + c
			} else {
				s += " cargo"
			}
			if t, ok := kd["total"].(int64); ok {
				s += " for " + credits(t)
			}
			return s
		},
	},
	"MissionAccepted": {
		extract:   extractMission,
		summarize: summarizeMission("Accepted mission"),
	},
	"MissionCompleted": {
		extract:   extractMission,
		summarize: summarizeMission("Completed mission"),
	},
	"MissionFailed": {
		extract:   extractMission,
		summarize: summarizeMission("Failed mission"),
	},
	"MissionAbandoned": {
		extract:   extractMission,
		summarize: summarizeMission("Abandoned mission"),
	},
	"Bounty": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "target", "Target")
			putStr(kd, r, "victim_faction", "VictimFaction")
			putInt(kd, r, "reward", "TotalReward")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Collected bounty"
			if t, ok := kd["target"].(string); ok {
				s += " on " + t
			}
			if v, ok := kd["reward"].(int64); ok {
				s += " worth " + credits(v)
			}
			return s
		},
	},
	"Interdicted": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "interdictor", "Interdictor")
			putBool(kd, r, "is_player", "IsPlayer")
			putBool(kd, r, "submitted", "Submitted")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Interdicted"
			if by, ok := kd["interdictor"].(string); ok {
				s += " by " + by
			}
			if sub, ok := kd["submitted"].(bool); ok && sub {
				s += " (submitted)"
			}
			return s
		},
	},
	"HullDamage": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putNum(kd, r, "health", "Health")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if h, ok := kd["health"].(float64); ok {
				return fmt.Sprintf("Hull damage taken, integrity at %.0f%%", h*100)
			}
			return "Hull damage taken"
		},
	},
	"Died": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "killer", "KillerName")
			putStr(kd, r, "killer_ship", "KillerShip")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if k, ok := kd["killer"].(string); ok {
				return "Ship destroyed by " + k
			}
			return "Ship destroyed"
		},
	},
	"Scan": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "body", "BodyName")
			putStr(kd, r, "star_type", "StarType")
			putStr(kd, r, "planet_class", "PlanetClass")
			putStr(kd, r, "terraform_state", "TerraformState")
			putNum(kd, r, "distance_ls", "DistanceFromArrivalLS")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Scanned"
			if b, ok := kd["body"].(string); ok {
				s += " " + b
			} else {
				s += " a body"
			}
			if pc, ok := kd["planet_class"].(string); ok {
				s += " (" + pc + ")"
			} else if st, ok := kd["star_type"].(string); ok {
				s += " (class " + st + " star)"
			}
			return s
		},
	},
	"SellExplorationData": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putInt(kd, r, "base_value", "BaseValue")
			putInt(kd, r, "bonus", "Bonus")
			putInt(kd, r, "total", "TotalEarnings")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if t, ok := kd["total"].(int64); ok {
				return "Sold exploration data for " + credits(t)
			}
			return "Sold exploration data"
		},
	},
	"MiningRefined": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "commodity", "Type")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if c, ok := kd["commodity"].(string); ok {
				return "Refined " + c
			}
			return "Refined a commodity"
		},
	},
	"EngineerCraft": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "engineer", "Engineer")
			putStr(kd, r, "blueprint", "BlueprintName")
			putInt(kd, r, "level", "Level")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Applied engineering"
			if b, ok := kd["blueprint"].(string); ok {
				s += ": " + b
			}
			if e, ok := kd["engineer"].(string); ok {
				s += " at " + e
			}
			return s
		},
	},
	"ReceiveText": {
		extract:   extractChat("From"),
		summarize: summarizeChat("Message from"),
	},
	"SendText": {
		extract:   extractChat("To"),
		summarize: summarizeChat("Message to"),
	},
	"FuelScoop": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putNum(kd, r, "scooped", "Scooped")
			putNum(kd, r, "total", "Total")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if s, ok := kd["scooped"].(float64); ok {
				return fmt.Sprintf("Scooped %.2f t of fuel", s)
			}
			return "Scooped fuel"
		},
	},
	"RefuelAll": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putNum(kd, r, "amount", "Amount")
			putInt(kd, r, "cost", "Cost")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Refuelled"
			if c, ok := kd["cost"].(int64); ok {
				s += " for " + credits(c)
			}
			return s
		},
	},
	"Cargo": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putInt(kd, r, "count", "Count")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if n, ok := kd["count"].(int64); ok {
				return fmt.Sprintf("Cargo hold at %d t", n)
			}
			return "Cargo manifest updated"
		},
	},
	"CarrierJump": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "system", "StarSystem")
			putStr(kd, r, "body", "Body")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if sys, ok := kd["system"].(string); ok {
				return "Carrier jumped to " + sys
			}
			return "Carrier jumped"
		},
	},
	"CarrierStats": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "name", "Name")
			putStr(kd, r, "callsign", "Callsign")
			putInt(kd, r, "fuel_level", "FuelLevel")
			if fin, ok := r["Finance"].(map[string]any); ok {
				if bal, ok := fin["CarrierBalance"].(float64); ok {
					kd["balance"] = int64(bal)
				}
				if res, ok := fin["ReserveBalance"].(float64); ok {
					kd["reserve"] = int64(res)
				}
			}
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			s := "Carrier stats updated"
			if b, ok := kd["balance"].(int64); ok {
				s += ", balance " + credits(b)
			}
			return s
		},
	},
	"CarrierBankTransfer": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putInt(kd, r, "deposit", "Deposit")
			putInt(kd, r, "withdraw", "Withdraw")
			putInt(kd, r, "carrier_balance", "CarrierBalance")
			putInt(kd, r, "player_balance", "PlayerBalance")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if d, ok := kd["deposit"].(int64); ok {
				return "Deposited " + credits(d) + " to carrier"
			}
			if w, ok := kd["withdraw"].(int64); ok {
				return "Withdrew " + credits(w) + " from carrier"
			}
			return "Carrier bank transfer"
		},
	},
	"ProspectedAsteroid": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "content", "Content")
			if mats, ok := r["Materials"].([]any); ok {
				names := make([]string, 0, len(mats))
				for _, m := range mats {
					if mm, ok := m.(map[string]any); ok {
						if n, ok := mm["Name"].(string); ok {
							names = append(names, n)
						}
					}
				}
				kd["materials"] = names
			}
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if c, ok := kd["content"].(string); ok {
				return "Prospected asteroid, content " + c
			}
			return "Prospected asteroid"
		},
	},
	"Commander": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putStr(kd, r, "name", "Name")
			putStr(kd, r, "fid", "FID")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			if n, ok := kd["name"].(string); ok {
				return "Commander " + n
			}
			return "Commander identified"
		},
	},
	"Status": {
		extract: func(r model.RawRecord) map[string]any {
			kd := map[string]any{}
			putInt(kd, r, "flags", "Flags")
			putNum(kd, r, "fuel_main", "FuelMain")
			return kd
		},
		summarize: func(r model.RawRecord, kd map[string]any) string {
			return "Status flags updated"
		},
	},
}

// extractLanding pulls the shared Touchdown/Liftoff fields.
func extractLanding(r model.RawRecord) map[string]any {
	kd := map[string]any{}
	putStr(kd, r, "body", "Body")
	putNum(kd, r, "latitude", "Latitude")
	putNum(kd, r, "longitude", "Longitude")
	return kd
}

// extractMission pulls the shared mission fields.
func extractMission(r model.RawRecord) map[string]any {
	kd := map[string]any{}
	putStr(kd, r, "name", "LocalisedName", "Name")
	putStr(kd, r, "faction", "Faction")
	putInt(kd, r, "reward", "Reward")
	putInt(kd, r, "mission_id", "MissionID")
	return kd
}

func summarizeMission(verb string) func(model.RawRecord, map[string]any) string {
	return func(r model.RawRecord, kd map[string]any) string {
		s := verb
		if n, ok := kd["name"].(string); ok {
			s += " \"" + n + "\""
		}
		if f, ok := kd["faction"].(string); ok {
			s += " for " + f
		}
		if v, ok := kd["reward"].(int64); ok && v > 0 {
			s += " (" + credits(v) + ")"
		}
		return s
	}
}

func extractChat(party string) func(model.RawRecord) map[string]any {
	return func(r model.RawRecord) map[string]any {
		kd := map[string]any{}
		putStr(kd, r, "sender", party)
		putStr(kd, r, "message", "Message_Localised", "Message")
		putStr(kd, r, "channel", "Channel")
		return kd
	}
}

func summarizeChat(prefix string) func(model.RawRecord, map[string]any) string {
	return func(r model.RawRecord, kd map[string]any) string {
		s := prefix
		if who, ok := kd["sender"].(string); ok {
			s += " " + who
		} else {
			s += " unknown"
		}
		if ch, ok := kd["channel"].(string); ok {
			s += " on " + ch
		}
		return s
	}
}
