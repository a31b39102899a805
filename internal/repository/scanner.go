package repository

// Scanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows is satisfied by *sql.Rows and pgx.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a row selected as (id, content, done)
func ScanTask(scanner Scanner) (*Record, error) {
	task := &Record{}
	err := scanner.Scan(&task.ID, &task.Content, &task.Done)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTasks scans every remaining row. The result is empty, not nil, when
// there are no rows.
func ScanTasks(rows Rows) ([]*Record, error) {
	tasks := make([]*Record, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
