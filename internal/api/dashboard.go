package api

import "context"

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalBuku       int `json:"totalBuku"`
	TotalMahasiswa  int `json:"totalMahasiswa"`
	TotalPeminjaman int `json:"totalPeminjaman"`
	BukuDipinjam    int `json:"bukuDipinjam"`
}

// Stats fetches the dashboard counters. On failure the zero value is
// returned together with the error, so the dashboard can still render.
func (c *Client) Stats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	if err := c.Post(ctx, "/dashboard/stats", nil, &out); err != nil {
		return DashboardStats{}, err
	}
	return out, nil
}
