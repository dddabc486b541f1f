package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// PanelExportRow is one line of a panel download: the flattened view of a
// published record as served in the CSV export.
type PanelExportRow struct {
	StableID      string
	GeneSymbol    string
	Genotype      string
	DiseaseName   string
	Mechanism     string
	Confidence    string
	DateReview    sql.NullString
}

// GetPanelExportRows fetches all live, reviewed records for a panel,
// flattened for CSV export. The query is built with squirrel over the raw
// connection since it joins far more tables than the model layer wants to
// preload.
func GetPanelExportRows(db *sql.DB, panelName string) ([]PanelExportRow, error) {
	query := sq.Select(
		"g2p_stable_ids.stable_id",
		"loci.name",
		"genotype.value",
		"diseases.name",
		"cv_molecular_mechanisms.value",
		"confidence.value",
		"locus_genotype_disease.date_review",
	).
		From("locus_genotype_disease").
		Join("g2p_stable_ids ON g2p_stable_ids.id = locus_genotype_disease.stable_id_id").
		Join("loci ON loci.id = locus_genotype_disease.locus_id").
		Join("attribs AS genotype ON genotype.id = locus_genotype_disease.genotype_id").
		Join("diseases ON diseases.id = locus_genotype_disease.disease_id").
		Join("cv_molecular_mechanisms ON cv_molecular_mechanisms.id = locus_genotype_disease.mechanism_id").
		Join("attribs AS confidence ON confidence.id = locus_genotype_disease.confidence_id").
		Join("lgd_panels ON lgd_panels.lgd_id = locus_genotype_disease.id").
		Join("panels ON panels.id = lgd_panels.panel_id").
		Where(sq.Eq{
			"panels.name":                        panelName,
			"locus_genotype_disease.is_deleted":  0,
			"locus_genotype_disease.is_reviewed": 1,
			"lgd_panels.is_deleted":              0,
			"g2p_stable_ids.is_live":             true,
		})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build panel export query: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query panel export for %s: %w", panelName, err)
	}
	defer rows.Close()

	var exportRows []PanelExportRow
	for rows.Next() {
		var r PanelExportRow
		err := rows.Scan(&r.StableID, &r.GeneSymbol, &r.Genotype, &r.DiseaseName,
			&r.Mechanism, &r.Confidence, &r.DateReview)
		if err != nil {
			return nil, fmt.Errorf("failed to scan panel export row: %w", err)
		}
		exportRows = append(exportRows, r)
	}

	return exportRows, rows.Err()
}
