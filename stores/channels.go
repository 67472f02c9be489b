package stores

import "github.com/savora-app/savora_backend/models"

// DefaultChannel receives every category without a dedicated channel
const DefaultChannel = "default"

var channelByCategory = map[models.NotificationCategory]string{
	models.CategoryGeneral:    DefaultChannel,
	models.CategoryOrders:     "orders",
	models.CategoryPromotions: "promotions",
	models.CategoryReminders:  "reminders",
	models.CategoryLoyalty:    "loyalty",
}

var categoryByType = map[models.NotificationType]models.NotificationCategory{
	models.NotificationSuccess: models.CategoryGeneral,
	models.NotificationError:   models.CategoryGeneral,
	models.NotificationInfo:    models.CategoryGeneral,
	models.NotificationWarning: models.CategoryGeneral,
	models.NotificationPromo:   models.CategoryPromotions,
}

// ChannelFor maps a notification category to its device channel
func ChannelFor(category models.NotificationCategory) string {
	if ch, ok := channelByCategory[category]; ok {
		return ch
	}
	return DefaultChannel
}

// CategoryFor is the category a notification of type t gets when none is given
func CategoryFor(t models.NotificationType) models.NotificationCategory {
	if c, ok := categoryByType[t]; ok {
		return c
	}
	return models.CategoryGeneral
}
