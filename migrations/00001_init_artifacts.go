package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

//Up00001 creates the artifact ledger table
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE public.imagery_artifacts
		(
			point_name text COLLATE pg_catalog."default" NOT NULL,
			lat double precision NOT NULL,
			lon double precision NOT NULL,
			radius double precision NOT NULL,
			band_keys text COLLATE pg_catalog."default" NOT NULL,
			scene_id text COLLATE pg_catalog."default" NOT NULL,
			artifact_path text COLLATE pg_catalog."default" NOT NULL,
			created_at timestamp without time zone NOT NULL,
			CONSTRAINT imagery_artifacts_pk UNIQUE (point_name, radius, band_keys)
		)
		WITH (
			OIDS = FALSE
		);

		CREATE INDEX idx_imagery_artifacts_created_at
		ON public.imagery_artifacts (created_at);
		`)
	return err
}

//Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE IF EXISTS public.imagery_artifacts;
		`)
	return err
}
