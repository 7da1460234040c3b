// internal/storage/postgres/jobs.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = "id, title, description, trade, zip_code, city, lat, lng, price, status, contractor_id, created_at, updated_at"

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *pgxpool.Pool) *JobRepo {
	return &JobRepo{db: db}
}

// WithTx creates a new JobRepo bound to the transaction.
func (r *JobRepo) WithTx(tx pgx.Tx) storage.JobRepository {
	return &JobRepo{db: tx}
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Trade,
		&job.ZipCode,
		&job.City,
		&job.Lat,
		&job.Lng,
		&job.Price,
		&job.Status,
		&job.ContractorID,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Create saves a new job listing.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO jobs (id, title, description, trade, zip_code, city, lat, lng, price, status, contractor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s
	`, jobColumns)

	row := r.db.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Trade,
		job.ZipCode,
		job.City,
		job.Lat,
		job.Lng,
		job.Price,
		job.Status,
		job.ContractorID,
	)

	createdJob, err := scanJob(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			log.Printf("Error creating job: invalid contractor %s: %v\n", job.ContractorID, err)
			return nil, fmt.Errorf("failed to create job: invalid contractor ID: %w", storage.ErrConflict)
		}
		log.Printf("Error creating job: %v\n", err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Printf("Job created successfully with ID: %s", createdJob.ID)
	return createdJob, nil
}

// GetByID retrieves a specific job by its ID, regardless of status.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning job by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job by ID %s: %w", id, err)
	}

	return job, nil
}

// Search retrieves OPEN jobs matching the resolved filters. Radius searches
// compute the haversine distance in SQL, restrict to the radius, and order by
// ascending distance; they take precedence over the location text filter.
func (r *JobRepo) Search(ctx context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
	conditions := []string{"status = $1"}
	args := []interface{}{models.JobStatusOpen}

	if params.Trade != nil {
		args = append(args, *params.Trade)
		conditions = append(conditions, fmt.Sprintf("trade = $%d", len(args)))
	}

	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		textCond := fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d", len(args), len(args))
		if len(params.TradeMatches) > 0 {
			trades := make([]string, 0, len(params.TradeMatches))
			for _, t := range params.TradeMatches {
				trades = append(trades, string(t))
			}
			args = append(args, trades)
			textCond += fmt.Sprintf(" OR trade = ANY($%d)", len(args))
		}
		textCond += ")"
		conditions = append(conditions, textCond)
	}

	usedRadius := params.Point != nil && params.RadiusKM != nil
	orderBy := "created_at DESC"
	distanceSelect := "NULL::float8 AS distance_km"

	if usedRadius {
		args = append(args, params.Point.Lat)
		latIdx := len(args)
		args = append(args, params.Point.Lng)
		lngIdx := len(args)

		// Haversine over the stored coordinates; 6371 km earth radius.
		distanceExpr := fmt.Sprintf(
			"(6371 * acos(least(1.0, cos(radians($%d)) * cos(radians(lat)) * cos(radians(lng) - radians($%d)) + sin(radians($%d)) * sin(radians(lat)))))",
			latIdx, lngIdx, latIdx,
		)

		conditions = append(conditions, "lat IS NOT NULL", "lng IS NOT NULL")
		args = append(args, *params.RadiusKM)
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", distanceExpr, len(args)))

		distanceSelect = distanceExpr + " AS distance_km"
		orderBy = "distance_km ASC"
	} else if params.LocationText != "" {
		args = append(args, "%"+params.LocationText+"%")
		cityIdx := len(args)
		args = append(args, params.LocationText+"%")
		conditions = append(conditions, fmt.Sprintf("(city ILIKE $%d OR zip_code LIKE $%d)", cityIdx, len(args)))
	}

	args = append(args, params.Limit)
	limitIdx := len(args)
	args = append(args, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM jobs
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, jobColumns, distanceSelect, strings.Join(conditions, " AND "), orderBy, limitIdx, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying job search: %v\n", err)
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.Trade,
			&job.ZipCode,
			&job.City,
			&job.Lat,
			&job.Lng,
			&job.Price,
			&job.Status,
			&job.ContractorID,
			&job.CreatedAt,
			&job.UpdatedAt,
			&job.DistanceKM,
		); err != nil {
			log.Printf("Error scanning job search row: %v\n", err)
			return nil, fmt.Errorf("failed to scan job search results: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job search results: %w", err)
	}

	if jobs == nil {
		jobs = []models.Job{} // Return empty slice, not nil
	}

	return jobs, nil
}

// ListByContractor retrieves all jobs of a contractor, regardless of status.
func (r *JobRepo) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]models.Job, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE contractor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, jobColumns)

	rows, err := r.db.Query(ctx, query, contractorID, limit, offset)
	if err != nil {
		log.Printf("Error querying jobs by contractor %s: %v\n", contractorID, err)
		return nil, fmt.Errorf("failed to query jobs by contractor: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.Trade,
			&job.ZipCode,
			&job.City,
			&job.Lat,
			&job.Lng,
			&job.Price,
			&job.Status,
			&job.ContractorID,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			log.Printf("Error scanning jobs by contractor %s: %v\n", contractorID, err)
			return nil, fmt.Errorf("failed to scan jobs by contractor: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs by contractor: %w", err)
	}

	if jobs == nil {
		jobs = []models.Job{}
	}

	return jobs, nil
}

// Update modifies an existing job based on non-nil fields in the request DTO.
func (r *JobRepo) Update(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	var setClauses []string
	args := []interface{}{}
	argID := 1

	if req.Title != nil {
		args = append(args, *req.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		argID++
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		argID++
	}
	if req.Trade != nil {
		args = append(args, *req.Trade)
		setClauses = append(setClauses, fmt.Sprintf("trade = $%d", argID))
		argID++
	}
	if req.ZipCode != nil {
		args = append(args, *req.ZipCode)
		setClauses = append(setClauses, fmt.Sprintf("zip_code = $%d", argID))
		argID++
	}
	if req.City != nil {
		args = append(args, *req.City)
		setClauses = append(setClauses, fmt.Sprintf("city = $%d", argID))
		argID++
	}
	if req.Lat != nil {
		args = append(args, *req.Lat)
		setClauses = append(setClauses, fmt.Sprintf("lat = $%d", argID))
		argID++
	}
	if req.Lng != nil {
		args = append(args, *req.Lng)
		setClauses = append(setClauses, fmt.Sprintf("lng = $%d", argID))
		argID++
	}
	if req.Price != nil {
		args = append(args, *req.Price)
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argID))
		argID++
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argID))
		argID++
	}

	if len(setClauses) == 0 {
		log.Printf("Update called for job %s with no fields to change.", req.ID)
		return nil, fmt.Errorf("no fields provided for update on job %s", req.ID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, req.ID)

	query := fmt.Sprintf(`
		UPDATE jobs
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argID, jobColumns)

	updatedJob, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found for update with ID: %s\n", req.ID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating job %s: %v\n", req.ID, err)
		return nil, fmt.Errorf("failed to update job %s: %w", req.ID, err)
	}

	log.Printf("Job updated successfully: %s", updatedJob.ID)
	return updatedJob, nil
}

// Delete removes a job by its ID.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM jobs WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // referenced by bookings/conversations
			return fmt.Errorf("failed to delete job %s: still referenced: %w", id, storage.ErrConflict)
		}
		log.Printf("Error deleting job %s: %v\n", id, err)
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Printf("Job not found for deletion with ID: %s\n", id)
		return storage.ErrNotFound
	}

	log.Printf("Job deleted successfully: %s", id)
	return nil
}
