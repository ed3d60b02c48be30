package model

import "time"

// OfflineSnapshotMaxAge オフラインキャッシュの有効期間
const OfflineSnapshotMaxAge = 24 * time.Hour

// OfflineEntity オフライン表示用に項目を絞ったスポット情報
type OfflineEntity struct {
	ID          string   `json:"id" firestore:"id"`
	Name        string   `json:"name" firestore:"name"`
	Coordinates GeoPoint `json:"coordinates" firestore:"coordinates"`
	Category    string   `json:"category,omitempty" firestore:"category"`
	District    string   `json:"district,omitempty" firestore:"district"`
	Rating      float64  `json:"rating" firestore:"rating"`
}

// OfflineSnapshot 優先度順に並んだスポットのスナップショット
type OfflineSnapshot struct {
	Entities []OfflineEntity `json:"entities"`
	SavedAt  time.Time       `json:"saved_at"`
}

// IsStale 保存から maxAge 以上経過しているか判定
func (s *OfflineSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.SavedAt) > maxAge
}

// ToMapEntities エンジン入力用の MapEntity に戻す
func (s *OfflineSnapshot) ToMapEntities() []*MapEntity {
	entities := make([]*MapEntity, 0, len(s.Entities))
	for _, oe := range s.Entities {
		rating := oe.Rating
		entities = append(entities, &MapEntity{
			ID:          oe.ID,
			Name:        oe.Name,
			Category:    oe.Category,
			District:    oe.District,
			Coordinates: oe.Coordinates,
			Rating:      &rating,
		})
	}
	return entities
}

// FirestoreOfflineSnapshot Firestore保存用のスナップショット
type FirestoreOfflineSnapshot struct {
	Entities []OfflineEntity `firestore:"entities"`
	SavedAt  time.Time       `firestore:"savedAt"`
	ExpireAt time.Time       `firestore:"expireAt"`
}

// ToFirestoreOfflineSnapshot Firestore保存用に変換（expireAtでTTL削除させる）
func (s *OfflineSnapshot) ToFirestoreOfflineSnapshot(ttl time.Duration) *FirestoreOfflineSnapshot {
	return &FirestoreOfflineSnapshot{
		Entities: s.Entities,
		SavedAt:  s.SavedAt,
		ExpireAt: s.SavedAt.Add(ttl),
	}
}

// ToOfflineSnapshot Firestoreのドキュメントから変換
func (f *FirestoreOfflineSnapshot) ToOfflineSnapshot() *OfflineSnapshot {
	return &OfflineSnapshot{
		Entities: f.Entities,
		SavedAt:  f.SavedAt,
	}
}
