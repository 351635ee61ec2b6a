package catalog

// Default returns the built-in content tables. These mirror the shipped game
// balance; a YAML catalogue file replaces them wholesale, not per-entry.
func Default() *Catalog {
	c := &Catalog{
		Generators: []GeneratorDef{
			{ID: "bot_farm", Name: "Bot Farm", BaseYieldPerSecond: 0.5, BaseCost: 15, CostScaling: 1.15},
			{ID: "meme_intern", Name: "Meme Intern", BaseYieldPerSecond: 2, BaseCost: 100, CostScaling: 1.15, UnlockAt: 50},
			{ID: "content_mill", Name: "Content Mill", BaseYieldPerSecond: 8, BaseCost: 1_100, CostScaling: 1.15, UnlockAt: 500},
			{ID: "hype_agency", Name: "Hype Agency", BaseYieldPerSecond: 47, BaseCost: 12_000, CostScaling: 1.15, UnlockAt: 6_000},
			{ID: "viral_lab", Name: "Viral Lab", BaseYieldPerSecond: 260, BaseCost: 130_000, CostScaling: 1.15, UnlockAt: 65_000},
			{ID: "algorithm_deal", Name: "Algorithm Deal", BaseYieldPerSecond: 1_400, BaseCost: 1_400_000, CostScaling: 1.15, UnlockAt: 700_000},
		},
		Upgrades: []UpgradeDef{
			{ID: "sturdy_mouse", Name: "Sturdy Mouse", Description: "+1 cred per click.", Cost: 100, Effect: Effect{Type: EffectClickAdditive, Value: 1}, Tier: 1},
			{ID: "mech_keyboard", Name: "Mechanical Keyboard", Description: "+2 creds per click.", Cost: 500, Effect: Effect{Type: EffectClickAdditive, Value: 2}, Tier: 2},
			{ID: "macro_pad", Name: "Macro Pad", Description: "+3 creds per click.", Cost: 2_500, Effect: Effect{Type: EffectClickAdditive, Value: 3}, Tier: 3},
			{ID: "ring_light", Name: "Ring Light", Description: "+5 creds per click.", Cost: 12_000, Effect: Effect{Type: EffectClickAdditive, Value: 5}, Tier: 4},
			{ID: "studio_rig", Name: "Studio Rig", Description: "+8 creds per click.", Cost: 60_000, Effect: Effect{Type: EffectClickAdditive, Value: 8}, Tier: 5},
			{ID: "caffeine_drip", Name: "Caffeine Drip", Description: "Clicks hit 10% harder per level.", Cost: 1_000, CostScaling: 2.5, Effect: Effect{Type: EffectClickMultiplier, Value: 1.1}, MaxLevel: 10},
			{ID: "engagement_hack", Name: "Engagement Hack", Description: "Generators yield 10% more per level.", Cost: 5_000, CostScaling: 3, Effect: Effect{Type: EffectGeneratorMultiplier, Value: 1.1}, MaxLevel: 10},
			{ID: "brand_deal", Name: "Brand Deal", Description: "Everything yields 5% more per level.", Cost: 25_000, CostScaling: 4, Effect: Effect{Type: EffectGlobalMultiplier, Value: 1.05}, MaxLevel: 5},
			{ID: "verified_badge", Name: "Verified Badge", Description: "All yields doubled. Survives a rebrand.", Cost: 1_000_000, Effect: Effect{Type: EffectGlobalMultiplier, Value: 2}, Permanent: true},
		},
		Themes: []ThemeDef{
			{ID: "default", Name: "Clean Feed", Cost: 0, BonusMultiplier: 1, Starter: true},
			{ID: "dark_mode", Name: "Dark Mode", Cost: 5, BonusMultiplier: 1.05},
			{ID: "vaporwave", Name: "Vaporwave", Cost: 15, BonusMultiplier: 1.1, BonusClickPower: 1},
			{ID: "gold_rush", Name: "Gold Rush", Cost: 50, BonusMultiplier: 1.2, BonusClickPower: 2},
		},
		Achievements: []AchievementDef{
			{ID: "first_click", Name: "First Tap", Description: "Click once.", Condition: "total_clicks", Threshold: 1},
			{ID: "click_100", Name: "Warmed Up", Description: "Click 100 times.", Condition: "total_clicks", Threshold: 100},
			{ID: "click_10k", Name: "Carpal Crunch", Description: "Click 10,000 times.", Condition: "total_clicks", Threshold: 10_000},
			{ID: "creds_1k", Name: "Petty Cash", Description: "Earn 1,000 lifetime creds.", Condition: "total_creds_earned", Threshold: 1_000},
			{ID: "creds_1m", Name: "Cred Magnate", Description: "Earn 1,000,000 lifetime creds.", Condition: "total_creds_earned", Threshold: 1_000_000},
			{ID: "hoarder", Name: "Hoarder", Description: "Hold 100,000 creds at once.", Condition: "creds_balance", Threshold: 100_000},
			{ID: "first_generator", Name: "Delegator", Description: "Buy a generator.", Condition: "generators_purchased", Threshold: 1},
			{ID: "generators_50", Name: "Industrialist", Description: "Buy 50 generators.", Condition: "generators_purchased", Threshold: 50},
			{ID: "all_generators", Name: "Full Stack", Description: "Unlock every generator.", Condition: "all_generators_unlocked", Threshold: 1},
			{ID: "first_upgrade", Name: "Optimizer", Description: "Buy an upgrade.", Condition: "upgrades_purchased", Threshold: 1},
			{ID: "first_award", Name: "Trophy Case", Description: "Earn an award.", Condition: "awards_earned", Threshold: 1},
			{ID: "first_prestige", Name: "Rebrand", Description: "Prestige once.", Condition: "prestige_count", Threshold: 1},
			{ID: "prestige_5", Name: "Serial Rebrander", Description: "Prestige five times.", Condition: "prestige_count", Threshold: 5},
			{ID: "notorious", Name: "Notorious", Description: "Accrue 1,000 notoriety.", Condition: "notoriety", Threshold: 1_000},
			{ID: "dedicated", Name: "Dedicated", Description: "Play for an hour.", Condition: "play_time", Threshold: 3_600},
			{ID: "completionist", Name: "Completionist", Description: "Unlock exactly 15 other achievements.", Condition: "achievements_unlocked", Threshold: 15},
			{ID: "welcome_back", Name: "Welcome Back", Description: "Return after a day away.", Condition: "return_after_24h"},
		},
	}
	c.index()
	return c
}
