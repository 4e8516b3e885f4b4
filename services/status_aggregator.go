package services

import "github.com/kendall-kelly/shopfloor-tracker-api/models"

// EffectiveStatus returns the least-advanced status among parts. A composite
// is only as far along as its slowest leaf; with no parts it is Pending.
// Parts carrying an unrecognised status are treated as Pending.
func EffectiveStatus(parts []models.Part) models.Status {
	if len(parts) == 0 {
		return models.StatusPending
	}
	statuses := make([]models.Status, len(parts))
	for i := range parts {
		statuses[i] = parts[i].Status
	}
	return MinStatus(statuses)
}

// MinStatus is EffectiveStatus over bare statuses.
func MinStatus(statuses []models.Status) models.Status {
	if len(statuses) == 0 {
		return models.StatusPending
	}
	lowest := len(models.AllStatuses) - 1
	for _, status := range statuses {
		ordinal := status.Ordinal()
		if ordinal < 0 {
			ordinal = 0
		}
		if ordinal < lowest {
			lowest = ordinal
			if lowest == 0 {
				break
			}
		}
	}
	return models.AllStatuses[lowest]
}

// StatusCounts histograms part statuses in lifecycle order. Every status
// appears in the result, including those with a zero count.
func StatusCounts(parts []models.Part) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for i := range parts {
		status := parts[i].Status
		if !status.IsValid() {
			status = models.StatusPending
		}
		counts[status]++
	}
	return counts
}
