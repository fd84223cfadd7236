package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "sitewidgets"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys are prefixed by entity kind so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// WidgetDefinitionUUID returns the catalog id for a widget type name.
func WidgetDefinitionUUID(name string) uuid.UUID {
	return UUID(namespace + ":widget_definition:" + strings.ToLower(strings.TrimSpace(name)))
}

// ItemID assigns an id to a legacy collection item that was stored without one.
// The result depends only on the seed, the field and the item's position so repeated
// resolutions of the same stored configuration agree.
func ItemID(seed, field string, index int) string {
	key := namespace + ":item:" + strings.TrimSpace(seed) + ":" + strings.TrimSpace(field) + ":" + strconv.Itoa(index)
	return UUID(key).String()
}

// RowID returns the id of a specialized collection row for a widget field item.
func RowID(widgetID uuid.UUID, field, itemID string) uuid.UUID {
	return UUID(namespace + ":collection_row:" + widgetID.String() + ":" + strings.TrimSpace(field) + ":" + strings.TrimSpace(itemID))
}

// EntryID returns the id of a normalized configuration entry.
func EntryID(widgetID uuid.UUID, key string) uuid.UUID {
	return UUID(namespace + ":config_entry:" + widgetID.String() + ":" + strings.TrimSpace(key))
}
