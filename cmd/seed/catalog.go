package main

import "fmt"

type demoGame struct {
	Game       GameRequest
	Heroes     []HeroRequest
	BasePrice  int
	Servers    []string
	Resources  []string
	TitleWords [2]string
}

func rarity(n int) *int { return &n }

func element(s string) *string { return &s }

var demoCatalog = []demoGame{
	{
		Game: GameRequest{
			NameEn:         "Genshin Impact",
			NameRu:         "Геншин Импакт",
			DescriptionEn:  "Ready accounts with five-star characters and weapons.",
			DescriptionRu:  "Готовые аккаунты с пятизвездочными персонажами и оружием.",
			HasGachaHeroes: true,
		},
		Heroes: []HeroRequest{
			{NameEn: "Raiden Shogun", NameRu: "Райдэн", Type: "legendary", Rarity: rarity(5), Element: element("Electro")},
			{NameEn: "Nahida", NameRu: "Нахида", Type: "legendary", Rarity: rarity(5), Element: element("Dendro")},
			{NameEn: "Zhongli", NameRu: "Чжун Ли", Type: "legendary", Rarity: rarity(5), Element: element("Geo")},
			{NameEn: "Bennett", NameRu: "Беннет", Type: "epic", Rarity: rarity(4), Element: element("Pyro")},
			{NameEn: "Xingqiu", NameRu: "Син Цю", Type: "epic", Rarity: rarity(4), Element: element("Hydro")},
			{NameEn: "Fischl", NameRu: "Фишль", Type: "epic", Rarity: rarity(4), Element: element("Electro")},
		},
		BasePrice:  2500,
		Servers:    []string{"Europe", "Asia", "America"},
		Resources:  []string{"Primogems", "Intertwined Fate"},
		TitleWords: [2]string{"Starter", "Стартовый"},
	},
	{
		Game: GameRequest{
			NameEn:         "Honkai: Star Rail",
			NameRu:         "Хонкай: Стар Рейл",
			DescriptionEn:  "Accounts with limited characters and light cones.",
			DescriptionRu:  "Аккаунты с лимитированными персонажами и световыми конусами.",
			HasGachaHeroes: true,
		},
		Heroes: []HeroRequest{
			{NameEn: "Kafka", NameRu: "Кафка", Type: "legendary", Rarity: rarity(5)},
			{NameEn: "Acheron", NameRu: "Ахерон", Type: "legendary", Rarity: rarity(5)},
			{NameEn: "Tingyun", NameRu: "Тинъюнь", Type: "epic", Rarity: rarity(4)},
			{NameEn: "Pela", NameRu: "Пела", Type: "epic", Rarity: rarity(4)},
		},
		BasePrice:  1800,
		Servers:    []string{"Europe", "Asia"},
		Resources:  []string{"Stellar Jade", "Star Rail Special Pass"},
		TitleWords: [2]string{"Endgame", "Эндгейм"},
	},
	{
		Game: GameRequest{
			NameEn:        "Clash of Clans",
			NameRu:        "Клэш оф Кланс",
			DescriptionEn: "Maxed town halls and heroes.",
			DescriptionRu: "Прокачанные ратуши и герои.",
		},
		BasePrice:  900,
		Servers:    []string{"Global"},
		Resources:  []string{"Gems", "Gold"},
		TitleWords: [2]string{"Town Hall", "Ратуша"},
	},
}

// demoAccount builds the i-th listing for a game. Rosters rotate through the
// hero list and every third listing doubles its first hero so duplicate
// searches have something to find.
func demoAccount(demo demoGame, game *Game, heroes []*Hero, i int) AccountRequest {
	var heroIDs []string
	if len(heroes) > 0 {
		size := 2 + i%3
		for j := 0; j < size && j < len(heroes); j++ {
			heroIDs = append(heroIDs, heroes[(i+j)%len(heroes)].ID)
		}
		if i%3 == 0 {
			heroIDs = append(heroIDs, heroIDs[0])
		}
	}

	resources := make([]Resource, 0, len(demo.Resources))
	for j, name := range demo.Resources {
		resources = append(resources, Resource{Name: name, Value: float64((i + 1) * (j + 1) * 160)})
	}

	level := 30 + i*5
	status := "active"
	if i > 0 && i%5 == 0 {
		status = "sold"
	}

	return AccountRequest{
		GameID:        game.ID,
		TitleEn:       fmt.Sprintf("%s %s #%d", game.NameEn, demo.TitleWords[0], i+1),
		TitleRu:       fmt.Sprintf("%s %s #%d", demo.Game.NameRu, demo.TitleWords[1], i+1),
		DescriptionEn: "Email access is handed over after payment.",
		DescriptionRu: "Доступ к почте передается после оплаты.",
		Price:         fmt.Sprintf("%d", demo.BasePrice+i*350),
		Server:        demo.Servers[i%len(demo.Servers)],
		Level:         &level,
		Guaranteed:    i%2 == 0,
		HeroIDs:       heroIDs,
		Resources:     resources,
		Status:        status,
	}
}
