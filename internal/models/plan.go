package models

// Названия тарифов. Набор общий для клиентов и исполнителей,
// различаются только лимиты.
const (
	TierFree     = "Free"
	TierStandard = "Standard"
	TierPro      = "Pro"
	TierPremium  = "Premium"
)

// Периоды оплаты тарифа.
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Plan описывает тарифный план. Справочные данные, неизменяемые во время
// работы: выбор плана лишь создаёт запрос pendingSubscription на учётной записи.
// MaxClients действует для исполнителей, MaxJobPosts — для клиентов.
type Plan struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	PriceMonthly int64    `json:"priceMonthly"`
	PriceYearly  int64    `json:"priceYearly"`
	MaxClients   int      `json:"maxClients,omitempty"`
	MaxJobPosts  int      `json:"maxJobPosts,omitempty"`
	Features     []string `json:"features"`
}

// AvailablePlans возвращает каталог тарифов для роли.
func AvailablePlans(role string) []Plan {
	if role == RoleClient {
		return []Plan{
			{Name: TierFree, Role: RoleClient, PriceMonthly: 0, PriceYearly: 0, MaxJobPosts: 2,
				Features: []string{"2 job posts per month", "basic support"}},
			{Name: TierStandard, Role: RoleClient, PriceMonthly: 49900, PriceYearly: 499000, MaxJobPosts: 6,
				Features: []string{"6 job posts per month", "priority support"}},
			{Name: TierPro, Role: RoleClient, PriceMonthly: 99900, PriceYearly: 999000, MaxJobPosts: 15,
				Features: []string{"15 job posts per month", "priority support", "featured posts"}},
			{Name: TierPremium, Role: RoleClient, PriceMonthly: 199900, PriceYearly: 1999000, MaxJobPosts: 40,
				Features: []string{"40 job posts per month", "dedicated support", "featured posts"}},
		}
	}
	return []Plan{
		{Name: TierFree, Role: RoleWorker, PriceMonthly: 0, PriceYearly: 0, MaxClients: 1,
			Features: []string{"1 new client per month", "basic profile"}},
		{Name: TierStandard, Role: RoleWorker, PriceMonthly: 49900, PriceYearly: 499000, MaxClients: 3,
			Features: []string{"3 new clients per month", "verified badge"}},
		{Name: TierPro, Role: RoleWorker, PriceMonthly: 99900, PriceYearly: 999000, MaxClients: 6,
			Features: []string{"6 new clients per month", "verified badge", "search boost"}},
		{Name: TierPremium, Role: RoleWorker, PriceMonthly: 199900, PriceYearly: 1999000, MaxClients: 13,
			Features: []string{"13 new clients per month", "verified badge", "top search placement"}},
	}
}

// FindPlan возвращает план по имени для роли или nil, если такого плана нет.
func FindPlan(role, name string) *Plan {
	for _, p := range AvailablePlans(role) {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// TierLimit возвращает месячный лимит новых клиентов исполнителя для тарифа.
// Неизвестный тариф трактуется как Free.
func TierLimit(tier string) int {
	if p := FindPlan(RoleWorker, tier); p != nil {
		return p.MaxClients
	}
	return FindPlan(RoleWorker, TierFree).MaxClients
}
