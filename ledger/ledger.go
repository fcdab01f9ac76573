package ledger

import (
	"database/sql"
	"strings"
	"time"

	"github.com/venicegeo/bf-imagery-clip/model"
)

// Ledger records completed composite artifacts in Postgres so reruns and
// sibling hosts can see what has already been produced. The pipeline runs
// fine without one.
type Ledger struct {
	db *sql.DB
}

// New wraps an open database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Record is one ledger row
type Record struct {
	PointName    string
	Lat          float64
	Lon          float64
	Radius       float64
	BandKeys     []string
	SceneID      string
	ArtifactPath string
	CreatedAt    time.Time
}

func encodeBandKeys(bandKeys []string) string {
	return strings.Join(bandKeys, ",")
}

func decodeBandKeys(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	return strings.Split(encoded, ",")
}

// RecordComposite upserts the ledger row for a completed composite
func (l *Ledger) RecordComposite(artifact model.CompositeArtifact) error {
	_, err := l.db.Exec(`
		INSERT INTO imagery_artifacts
			(point_name, lat, lon, radius, band_keys, scene_id, artifact_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (point_name, radius, band_keys) DO UPDATE
			SET scene_id = EXCLUDED.scene_id,
			    artifact_path = EXCLUDED.artifact_path,
			    created_at = EXCLUDED.created_at`,
		artifact.Point.Name,
		artifact.Point.Lat,
		artifact.Point.Lon,
		artifact.Radius,
		encodeBandKeys(artifact.BandKeys),
		artifact.SceneID,
		artifact.Path)
	return err
}

// CompositeExists reports whether a composite for the exact
// (point, radius, band keys) combination has been recorded
func (l *Ledger) CompositeExists(point model.PointOfInterest, radius float64, bandKeys []string) (bool, error) {
	var count int
	err := l.db.QueryRow(`
		SELECT count(*) FROM imagery_artifacts
		WHERE point_name = $1 AND radius = $2 AND band_keys = $3`,
		point.Name, radius, encodeBandKeys(bandKeys)).Scan(&count)
	return count > 0, err
}

// ListComposites returns every recorded composite, newest first
func (l *Ledger) ListComposites() ([]Record, error) {
	rows, err := l.db.Query(`
		SELECT point_name, lat, lon, radius, band_keys, scene_id, artifact_path, created_at
		FROM imagery_artifacts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var record Record
		var encodedBands string
		if err = rows.Scan(&record.PointName, &record.Lat, &record.Lon, &record.Radius,
			&encodedBands, &record.SceneID, &record.ArtifactPath, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.BandKeys = decodeBandKeys(encodedBands)
		records = append(records, record)
	}
	return records, rows.Err()
}
