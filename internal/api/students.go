package api

import "context"

// Student status values.
const (
	StudentActive   = "AKTIF"
	StudentInactive = "TIDAK_AKTIF"
	StudentGraduate = "LULUS"
)

// Student is a registered borrower (mahasiswa).
type Student struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"userId,omitempty"`
	Nama        string `json:"nama"`
	NIM         string `json:"nim"`
	Jurusan     string `json:"jurusan"`
	Alamat      string `json:"alamat,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// AccountID is the id the delete endpoint wants: the user account when the
// server reports one, else the student record id.
func (s Student) AccountID() ID {
	if s.UserID != "" {
		return s.UserID
	}
	return s.ID
}

// NewStudent is the create body. It creates the login account too.
type NewStudent struct {
	Nama        string `json:"nama"`
	NIM         string `json:"nim"`
	Jurusan     string `json:"jurusan"`
	Alamat      string `json:"alamat"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// StudentUpdate is the update body; empty fields are left unchanged.
type StudentUpdate struct {
	ID          ID     `json:"id"`
	Nama        string `json:"nama,omitempty"`
	NIM         string `json:"nim,omitempty"`
	Jurusan     string `json:"jurusan,omitempty"`
	Alamat      string `json:"alamat,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Students searches students.
func (c *Client) Students(ctx context.Context, q Query) (Page[Student], error) {
	var out Page[Student]
	if err := c.Post(ctx, "/admin/mahasiswa/find-all", q, &out); err != nil {
		return EmptyPage[Student](q.PageSize), err
	}
	return out, nil
}

// Student fetches one student.
func (c *Client) Student(ctx context.Context, id ID) (*Student, error) {
	var out Student
	if err := c.Post(ctx, Path("admin", "mahasiswa", "find", string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStudent registers a student and its account.
func (c *Client) CreateStudent(ctx context.Context, in NewStudent) (*Student, error) {
	var out Student
	if err := c.Post(ctx, "/admin/mahasiswa/create", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent edits the student in.ID.
func (c *Client) UpdateStudent(ctx context.Context, in StudentUpdate) (*Student, error) {
	var out Student
	if err := c.Post(ctx, "/admin/mahasiswa/update", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes the student and its account. The backend keys this
// by user id; see Student.AccountID.
func (c *Client) DeleteStudent(ctx context.Context, userID ID) error {
	return c.Delete(ctx, Path("admin", "mahasiswa", string(userID)))
}
