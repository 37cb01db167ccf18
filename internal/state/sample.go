package state

import (
	"github.com/google/uuid"

	"github.com/theirongolddev/subtrack/internal/model"
)

// Sample returns a demo collection with renewals spread over the next few
// days so every countdown tier shows up.
func Sample(today model.Date) model.Snapshot {
	streaming := model.Folder{ID: uuid.NewString(), Name: "Streaming", Icon: "🎬"}
	utilities := model.Folder{ID: uuid.NewString(), Name: "Utilities", Icon: "🔧"}
	shop := model.Folder{ID: uuid.NewString(), Name: "Shop", Icon: "🛒"}
	productivity := model.Folder{ID: uuid.NewString(), Name: "Productivity", Icon: "📊"}

	sub := func(name string, amount float64, inDays int, rec model.Recurrence, link, tag, folderID string, archived bool) model.Subscription {
		return model.Subscription{
			ID:         uuid.NewString(),
			Name:       name,
			Amount:     amount,
			Anchor:     today.AddDays(inDays),
			Recurrence: rec,
			Tag:        tag,
			FolderID:   folderID,
			Link:       link,
			Archived:   archived,
		}
	}

	return model.Snapshot{
		Subscriptions: []model.Subscription{
			sub("Netflix", 15.99, 0, model.RecurMonthly, "https://netflix.com", "Entertainment", streaming.ID, false),
			sub("Spotify Premium", 9.99, 1, model.RecurMonthly, "https://spotify.com", "Music", streaming.ID, false),
			sub("Amazon Prime", 12.99, 2, model.RecurYearly, "https://amazon.com/prime", "Shopping", shop.ID, false),
			sub("YouTube Premium", 11.99, 3, model.RecurMonthly, "https://youtube.com/premium", "Entertainment", "", false),
			sub("Adobe Creative Cloud", 52.99, 4, model.RecurMonthly, "https://adobe.com", "Software", utilities.ID, false),
			sub("Old Gaming Service", 19.99, 0, model.RecurMonthly, "https://example.com", "Gaming", "", true),
		},
		Folders: []model.Folder{streaming, utilities, shop, productivity},
	}
}
