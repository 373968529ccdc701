package classifier

import "starlog/internal/model"

// categoryTable maps journal event names to their category. Lookup is O(1) and
// anything absent maps to CategoryOther. The table is the single source of
// truth for categorization; add new event names here when the game grows.
var categoryTable = map[string]model.EventCategory{
	// System / session
	"Fileheader":     model.CategorySystem,
	"Shutdown":       model.CategorySystem,
	"Music":          model.CategorySystem,
	"Status":         model.CategorySystem,
	"Commander":      model.CategorySystem,
	"LoadGame":       model.CategorySystem,
	"NewCommander":   model.CategorySystem,
	"ClearSavedGame": model.CategorySystem,
	"Missions":       model.CategorySystem,
	"Progress":       model.CategorySystem,
	"Rank":           model.CategorySystem,
	"Reputation":     model.CategorySystem,
	"Statistics":     model.CategorySystem,
	"Screenshot":     model.CategorySystem,
	"Fileheader64":   model.CategorySystem,

	// Navigation
	"FSDJump":            model.CategoryNavigation,
	"FSDTarget":          model.CategoryNavigation,
	"StartJump":          model.CategoryNavigation,
	"SupercruiseEntry":   model.CategoryNavigation,
	"SupercruiseExit":    model.CategoryNavigation,
	"Docked":             model.CategoryNavigation,
	"Undocked":           model.CategoryNavigation,
	"DockingRequested":   model.CategoryNavigation,
	"DockingGranted":     model.CategoryNavigation,
	"DockingDenied":      model.CategoryNavigation,
	"DockingCancelled":   model.CategoryNavigation,
	"DockingTimeout":     model.CategoryNavigation,
	"Touchdown":          model.CategoryNavigation,
	"Liftoff":            model.CategoryNavigation,
	"Location":           model.CategoryNavigation,
	"ApproachBody":       model.CategoryNavigation,
	"LeaveBody":          model.CategoryNavigation,
	"ApproachSettlement": model.CategoryNavigation,
	"NavRoute":           model.CategoryNavigation,
	"NavRouteClear":      model.CategoryNavigation,
	"BookTaxi":           model.CategoryNavigation,
	"BookDropship":       model.CategoryNavigation,
	"CancelTaxi":         model.CategoryNavigation,
	"CancelDropship":     model.CategoryNavigation,
	"JetConeBoost":       model.CategoryNavigation,
	"JetConeDamage":      model.CategoryNavigation,
	"USSDrop":            model.CategoryNavigation,

	// Exploration
	"Scan":                     model.CategoryExploration,
	"ScanBaryCentre":           model.CategoryExploration,
	"FSSDiscoveryScan":         model.CategoryExploration,
	"FSSAllBodiesFound":        model.CategoryExploration,
	"FSSSignalDiscovered":      model.CategoryExploration,
	"FSSBodySignals":           model.CategoryExploration,
	"SAASignalsFound":          model.CategoryExploration,
	"SAAScanComplete":          model.CategoryExploration,
	"SellExplorationData":      model.CategoryExploration,
	"MultiSellExplorationData": model.CategoryExploration,
	"BuyExplorationData":       model.CategoryExploration,
	"CodexEntry":               model.CategoryExploration,
	"DiscoveryScan":            model.CategoryExploration,
	"DatalinkScan":             model.CategoryExploration,
	"DatalinkVoucher":          model.CategoryExploration,
	"DataScanned":              model.CategoryExploration,

	// Combat
	"Bounty":             model.CategoryCombat,
	"CapShipBond":        model.CategoryCombat,
	"Died":               model.CategoryCombat,
	"Resurrect":          model.CategoryCombat,
	"EscapeInterdiction": model.CategoryCombat,
	"FactionKillBond":    model.CategoryCombat,
	"FighterDestroyed":   model.CategoryCombat,
	"FighterRebuilt":     model.CategoryCombat,
	"HeatDamage":         model.CategoryCombat,
	"HeatWarning":        model.CategoryCombat,
	"HullDamage":         model.CategoryCombat,
	"Interdicted":        model.CategoryCombat,
	"Interdiction":       model.CategoryCombat,
	"PVPKill":            model.CategoryCombat,
	"ShieldState":        model.CategoryCombat,
	"ShipTargeted":       model.CategoryCombat,
	"SRVDestroyed":       model.CategoryCombat,
	"UnderAttack":        model.CategoryCombat,
	"CockpitBreached":    model.CategoryCombat,
	"SelfDestruct":       model.CategoryCombat,
	"CommitCrime":        model.CategoryCombat,
	"CrimeVictim":        model.CategoryCombat,
	"PayBounties":        model.CategoryCombat,
	"PayFines":           model.CategoryCombat,
	"RedeemVoucher":      model.CategoryCombat,

	// Trading
	"Market":          model.CategoryTrading,
	"MarketBuy":       model.CategoryTrading,
	"MarketSell":      model.CategoryTrading,
	"BuyTradeData":    model.CategoryTrading,
	"CollectCargo":    model.CategoryTrading,
	"EjectCargo":      model.CategoryTrading,
	"CargoDepot":      model.CategoryTrading,
	"CargoTransfer":   model.CategoryTrading,
	"SellDrones":      model.CategoryTrading,
	"BuyDrones":       model.CategoryTrading,
	"SearchAndRescue": model.CategoryTrading,

	// Mission
	"MissionAccepted":      model.CategoryMission,
	"MissionCompleted":     model.CategoryMission,
	"MissionFailed":        model.CategoryMission,
	"MissionAbandoned":     model.CategoryMission,
	"MissionRedirected":    model.CategoryMission,
	"CommunityGoal":        model.CategoryMission,
	"CommunityGoalJoin":    model.CategoryMission,
	"CommunityGoalDiscard": model.CategoryMission,
	"CommunityGoalReward":  model.CategoryMission,

	// Engineering / materials
	"EngineerProgress":      model.CategoryEngineering,
	"EngineerCraft":         model.CategoryEngineering,
	"EngineerContribution":  model.CategoryEngineering,
	"EngineerApply":         model.CategoryEngineering,
	"EngineerLegacyConvert": model.CategoryEngineering,
	"Materials":             model.CategoryEngineering,
	"MaterialCollected":     model.CategoryEngineering,
	"MaterialDiscarded":     model.CategoryEngineering,
	"MaterialDiscovered":    model.CategoryEngineering,
	"MaterialTrade":         model.CategoryEngineering,
	"Synthesis":             model.CategoryEngineering,
	"TechnologyBroker":      model.CategoryEngineering,
	"ScientificResearch":    model.CategoryEngineering,

	// Mining
	"MiningRefined":      model.CategoryMining,
	"ProspectedAsteroid": model.CategoryMining,
	"AsteroidCracked":    model.CategoryMining,
	"LaunchDrone":        model.CategoryMining,

	// Passenger
	"Passengers":        model.CategoryPassenger,
	"PassengerManifest": model.CategoryPassenger,

	// Squadron
	"SquadronCreated":          model.CategorySquadron,
	"SquadronStartup":          model.CategorySquadron,
	"SquadronDemotion":         model.CategorySquadron,
	"SquadronPromotion":        model.CategorySquadron,
	"DisbandedSquadron":        model.CategorySquadron,
	"InvitedToSquadron":        model.CategorySquadron,
	"AppliedToSquadron":        model.CategorySquadron,
	"JoinedSquadron":           model.CategorySquadron,
	"KickedFromSquadron":       model.CategorySquadron,
	"LeftSquadron":             model.CategorySquadron,
	"SharedBookmarkToSquadron": model.CategorySquadron,
	"WonATrophyForSquadron":    model.CategorySquadron,

	// Powerplay
	"Powerplay":          model.CategoryPowerplay,
	"PowerplayCollect":   model.CategoryPowerplay,
	"PowerplayDefect":    model.CategoryPowerplay,
	"PowerplayDeliver":   model.CategoryPowerplay,
	"PowerplayFastTrack": model.CategoryPowerplay,
	"PowerplayJoin":      model.CategoryPowerplay,
	"PowerplayLeave":     model.CategoryPowerplay,
	"PowerplaySalary":    model.CategoryPowerplay,
	"PowerplayVote":      model.CategoryPowerplay,
	"PowerplayVoucher":   model.CategoryPowerplay,

	// Crew
	"CrewAssign":           model.CategoryCrew,
	"CrewFire":             model.CategoryCrew,
	"CrewHire":             model.CategoryCrew,
	"ChangeCrewRole":       model.CategoryCrew,
	"CrewLaunchFighter":    model.CategoryCrew,
	"CrewMemberJoins":      model.CategoryCrew,
	"CrewMemberQuits":      model.CategoryCrew,
	"CrewMemberRoleChange": model.CategoryCrew,
	"EndCrewSession":       model.CategoryCrew,
	"JoinACrew":            model.CategoryCrew,
	"KickCrewMember":       model.CategoryCrew,
	"QuitACrew":            model.CategoryCrew,
	"NpcCrewPaidWage":      model.CategoryCrew,
	"NpcCrewRank":          model.CategoryCrew,

	// Social
	"ReceiveText": model.CategorySocial,
	"SendText":    model.CategorySocial,
	"Friends":     model.CategorySocial,
	"WingAdd":     model.CategorySocial,
	"WingInvite":  model.CategorySocial,
	"WingJoin":    model.CategorySocial,
	"WingLeave":   model.CategorySocial,
	"Promotion":   model.CategorySocial,

	// Ship
	"Loadout":              model.CategoryShip,
	"ModuleBuy":            model.CategoryShip,
	"ModuleSell":           model.CategoryShip,
	"ModuleSellRemote":     model.CategoryShip,
	"ModuleStore":          model.CategoryShip,
	"ModuleRetrieve":       model.CategoryShip,
	"ModuleSwap":           model.CategoryShip,
	"MassModuleStore":      model.CategoryShip,
	"FetchRemoteModule":    model.CategoryShip,
	"Outfitting":           model.CategoryShip,
	"Shipyard":             model.CategoryShip,
	"ShipyardBuy":          model.CategoryShip,
	"ShipyardNew":          model.CategoryShip,
	"ShipyardSell":         model.CategoryShip,
	"ShipyardSwap":         model.CategoryShip,
	"ShipyardTransfer":     model.CategoryShip,
	"StoredShips":          model.CategoryShip,
	"StoredModules":        model.CategoryShip,
	"SetUserShipName":      model.CategoryShip,
	"Repair":               model.CategoryShip,
	"RepairAll":            model.CategoryShip,
	"RepairDrone":          model.CategoryShip,
	"AfmuRepairs":          model.CategoryShip,
	"RebootRepair":         model.CategoryShip,
	"BuyAmmo":              model.CategoryShip,
	"RestockVehicle":       model.CategoryShip,
	"FuelScoop":            model.CategoryShip,
	"RefuelAll":            model.CategoryShip,
	"RefuelPartial":        model.CategoryShip,
	"ReservoirReplenished": model.CategoryShip,
	"Cargo":                model.CategoryShip,
	"LaunchSRV":            model.CategoryShip,
	"DockSRV":              model.CategoryShip,
	"LaunchFighter":        model.CategoryShip,
	"DockFighter":          model.CategoryShip,
	"VehicleSwitch":        model.CategoryShip,

	// Suit / on-foot
	"SuitPurchased":          model.CategorySuit,
	"SuitLoadout":            model.CategorySuit,
	"SwitchSuitLoadout":      model.CategorySuit,
	"CreateSuitLoadout":      model.CategorySuit,
	"DeleteSuitLoadout":      model.CategorySuit,
	"RenameSuitLoadout":      model.CategorySuit,
	"SellSuit":               model.CategorySuit,
	"UpgradeSuit":            model.CategorySuit,
	"BuyWeapon":              model.CategorySuit,
	"SellWeapon":             model.CategorySuit,
	"UpgradeWeapon":          model.CategorySuit,
	"Backpack":               model.CategorySuit,
	"BackpackChange":         model.CategorySuit,
	"CollectItems":           model.CategorySuit,
	"DropItems":              model.CategorySuit,
	"UseConsumable":          model.CategorySuit,
	"Disembark":              model.CategorySuit,
	"Embark":                 model.CategorySuit,
	"BuyMicroResources":      model.CategorySuit,
	"SellMicroResources":     model.CategorySuit,
	"TradeMicroResources":    model.CategorySuit,
	"TransferMicroResources": model.CategorySuit,

	// Fleet carrier
	"CarrierJump":               model.CategoryCarrier,
	"CarrierBuy":                model.CategoryCarrier,
	"CarrierStats":              model.CategoryCarrier,
	"CarrierJumpRequest":        model.CategoryCarrier,
	"CarrierJumpCancelled":      model.CategoryCarrier,
	"CarrierJumpReady":          model.CategoryCarrier,
	"CarrierDecommission":       model.CategoryCarrier,
	"CarrierCancelDecommission": model.CategoryCarrier,
	"CarrierBankTransfer":       model.CategoryCarrier,
	"CarrierDepositFuel":        model.CategoryCarrier,
	"CarrierCrewServices":       model.CategoryCarrier,
	"CarrierFinance":            model.CategoryCarrier,
	"CarrierShipPack":           model.CategoryCarrier,
	"CarrierModulePack":         model.CategoryCarrier,
	"CarrierTradeOrder":         model.CategoryCarrier,
	"CarrierDockingPermission":  model.CategoryCarrier,
	"CarrierNameChange":         model.CategoryCarrier,
}

// CategoryFor returns the category for an event type name.
// Unmapped names fall back to CategoryOther.
func CategoryFor(eventType string) model.EventCategory {
	if c, ok := categoryTable[eventType]; ok {
		return c
	}
	return model.CategoryOther
}

// KnownTypeCount returns the size of the category table. Used by diagnostics.
func KnownTypeCount() int {
	return len(categoryTable)
}
