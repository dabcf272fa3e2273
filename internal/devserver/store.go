package devserver

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// Account roles as the backend spells them.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type account struct {
	ID        api.ID
	Username  string
	Email     string
	Hash      []byte
	Role      string
	StudentID api.ID
	Joined    string
}

// Store is the in-memory state behind the dev server. All methods are safe
// for concurrent use.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	cost       int
	finePerDay int
	twoStep    bool

	accounts   []*account
	students   []*api.Student
	categories []*api.Category
	books      []*catalog.Book
	loans      []*loan.Loan
}

func newStore(opts Options) *Store {
	return &Store{
		now:        opts.Now,
		cost:       opts.BcryptCost,
		finePerDay: opts.FinePerDay,
		twoStep:    opts.TwoStepReturn,
	}
}

func newID() api.ID { return api.ID(uuid.NewString()) }

func (s *Store) today() string { return loan.FormatDate(s.now()) }

func (s *Store) stamp() string { return s.now().Format(time.RFC3339Nano) }

// ---- accounts ----

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(username, password string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			if bcrypt.CompareHashAndPassword(a.Hash, []byte(password)) != nil {
				break
			}
			cp := *a
			return &cp, nil
		}
	}
	return nil, &StoreError{Status: 401, Message: "Username atau password salah"}
}

func (s *Store) addAccount(username, email, password, role string, studentID api.ID) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	a := &account{
		ID:        newID(),
		Username:  username,
		Email:     email,
		Hash:      hash,
		Role:      role,
		StudentID: studentID,
		Joined:    s.today(),
	}
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) accountByID(id api.ID) *account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Store) studentByID(id api.ID) *api.Student {
	for _, st := range s.students {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// Profile returns the account behind userID.
func (s *Store) Profile(userID api.ID) (api.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := s.accountByID(userID)
	if a == nil {
		return api.Profile{}, notFound("Akun tidak ditemukan")
	}
	p := api.Profile{
		ID:               a.ID,
		Username:         a.Username,
		Email:            a.Email,
		Role:             a.Role,
		TanggalBergabung: a.Joined,
	}
	if st := s.studentByID(a.StudentID); st != nil {
		p.Nama, p.NIM, p.Jurusan = st.Nama, st.NIM, st.Jurusan
		p.Alamat, p.PhoneNumber = st.Alamat, st.PhoneNumber
	}
	if p.Nama == "" {
		p.Nama = a.Username
	}
	return p, nil
}

func (s *Store) loginData(a *account, token string) api.LoginData {
	d := api.LoginData{
		ID:       a.ID,
		Role:     a.Role,
		Nama:     a.Username,
		Email:    a.Email,
		Token:    token,
		Username: a.Username,
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st := s.studentByID(a.StudentID); st != nil {
		d.Nama, d.NIM, d.Jurusan = st.Nama, st.NIM, st.Jurusan
	}
	return d
}

// ---- categories ----

// Categories lists categories whose name contains search.
func (s *Store) Categories(q api.Query) api.Page[api.Category] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.Category
	for _, c := range s.categories {
		if q.Search == "" || contains(c.Nama, q.Search) {
			out = append(out, *c)
		}
	}
	sortBy(out, q, map[string]func(api.Category) string{
		"id":   func(c api.Category) string { return c.CreatedAt },
		"nama": func(c api.Category) string { return c.Nama },
	})
	return paginate(out, q)
}

// Category returns one category.
func (s *Store) Category(id api.ID) (api.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.categoryByID(id); c != nil {
		return *c, nil
	}
	return api.Category{}, notFound("Kategori tidak ditemukan")
}

func (s *Store) categoryByID(id api.ID) *api.Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// SaveCategory creates a category, or edits it when in.ID is set.
func (s *Store) SaveCategory(in api.CategoryInput) (api.Category, error) {
	if strings.TrimSpace(in.Nama) == "" {
		return api.Category{}, badRequest("Nama kategori wajib diisi")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID != in.ID && strings.EqualFold(c.Nama, in.Nama) {
			return api.Category{}, conflict("Kategori sudah ada")
		}
	}
	if in.ID == "" {
		c := &api.Category{ID: newID(), Nama: in.Nama, Deskripsi: in.Deskripsi, CreatedAt: s.stamp(), UpdatedAt: s.stamp()}
		s.categories = append(s.categories, c)
		return *c, nil
	}
	c := s.categoryByID(in.ID)
	if c == nil {
		return api.Category{}, notFound("Kategori tidak ditemukan")
	}
	c.Nama, c.Deskripsi, c.UpdatedAt = in.Nama, in.Deskripsi, s.stamp()
	return *c, nil
}

// DeleteCategory removes an unused category.
func (s *Store) DeleteCategory(id api.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryByID(id) == nil {
		return notFound("Kategori tidak ditemukan")
	}
	for _, b := range s.books {
		if b.CategoryID == id {
			return conflict("Kategori masih dipakai oleh buku")
		}
	}
	s.categories = slices.DeleteFunc(s.categories, func(c *api.Category) bool { return c.ID == id })
	return nil
}

// ---- books ----

func (s *Store) bookByID(id api.ID) *catalog.Book {
	for _, b := range s.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// outstanding counts copies of bookID that are out on loan.
func (s *Store) outstanding(bookID api.ID) int {
	n := 0
	for _, l := range s.loans {
		if l.BookID == bookID && isOut(l.Status()) {
			n++
		}
	}
	return n
}

func isOut(st loan.Status) bool {
	switch st {
	case loan.StatusBorrowed, loan.StatusFined, loan.StatusAwaitingApproval, loan.StatusPending:
		return true
	}
	return false
}

// bookView is b as clients see it: category name filled in and status
// derived from stock unless an admin marked it unavailable.
func (s *Store) bookView(b *catalog.Book) catalog.Book {
	out := *b
	if c := s.categoryByID(b.CategoryID); c != nil {
		out.CategoryName = c.Nama
	}
	if out.Status.Status != catalog.Unavailable {
		if b.CopyCount-s.outstanding(b.ID) > 0 {
			out.Status.Status = catalog.Available
		} else {
			out.Status.Status = catalog.Borrowed
		}
	}
	return out
}

// Books searches the collection.
func (s *Store) Books(q api.Query) api.Page[catalog.Book] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Book
	for _, b := range s.books {
		v := s.bookView(b)
		if q.Search != "" && !contains(v.Title+" "+v.Author+" "+v.ISBN+" "+v.Publisher, q.Search) {
			continue
		}
		if q.KategoriID != "" && string(v.CategoryID) != q.KategoriID {
			continue
		}
		if q.Status != "" && !strings.EqualFold(string(v.Status.Status), q.Status) {
			continue
		}
		out = append(out, v)
	}
	sortBy(out, q, map[string]func(catalog.Book) string{
		"judulBuku":   func(b catalog.Book) string { return b.Title },
		"penulis":     func(b catalog.Book) string { return b.Author },
		"tahunTerbit": func(b catalog.Book) string { return fmt.Sprintf("%06d", b.Year) },
		"createdAt":   func(b catalog.Book) string { return b.CreatedAt },
	})
	return paginate(out, q)
}

// Book returns one book.
func (s *Store) Book(id api.ID) (catalog.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b := s.bookByID(id); b != nil {
		return s.bookView(b), nil
	}
	return catalog.Book{}, notFound("Buku tidak ditemukan")
}

// LiveStatus reports the stock of a book.
func (s *Store) LiveStatus(id api.ID) (catalog.LiveStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.bookByID(id)
	if b == nil {
		return catalog.LiveStatus{}, notFound("Buku tidak ditemukan")
	}
	out := s.outstanding(id)
	avail := b.CopyCount - out
	if avail < 0 {
		avail = 0
	}
	return catalog.LiveStatus{
		BookID:         id,
		Status:         s.bookView(b).Status.Status,
		TotalStock:     b.CopyCount,
		AvailableStock: avail,
		BorrowedStock:  out,
	}, nil
}

// SaveBook creates a book, or edits it when in.ID is set.
func (s *Store) SaveBook(in catalog.BookInput) (catalog.Book, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return catalog.Book{}, badRequest("Judul buku wajib diisi")
	case in.CopyCount < 0:
		return catalog.Book{}, badRequest("Jumlah salinan tidak boleh negatif")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.CategoryID != "" && s.categoryByID(in.CategoryID) == nil {
		return catalog.Book{}, badRequest("Kategori tidak ditemukan")
	}

	var b *catalog.Book
	if in.ID == "" {
		b = &catalog.Book{ID: newID(), CreatedAt: s.stamp()}
		s.books = append(s.books, b)
	} else {
		if b = s.bookByID(in.ID); b == nil {
			return catalog.Book{}, notFound("Buku tidak ditemukan")
		}
		if in.CopyCount < s.outstanding(b.ID) {
			return catalog.Book{}, badRequest("Jumlah salinan lebih kecil dari buku yang sedang dipinjam")
		}
	}
	b.Title, b.Author, b.Publisher, b.Year = in.Title, in.Author, in.Publisher, in.Year
	b.ISBN, b.CategoryID, b.CopyCount, b.Description = in.ISBN, in.CategoryID, in.CopyCount, in.Description
	b.Floor, b.Room, b.Shelf, b.ShelfNumber, b.Row = in.Floor, in.Room, in.Shelf, in.ShelfNumber, in.Row
	b.Status = catalog.StatusRef{Status: catalog.Available}
	if in.Status != "" {
		b.Status.Status = in.Status
	}
	b.UpdatedAt = s.stamp()
	return s.bookView(b), nil
}

// DeleteBook removes a book with no copies out.
func (s *Store) DeleteBook(id api.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookByID(id) == nil {
		return notFound("Buku tidak ditemukan")
	}
	if s.outstanding(id) > 0 {
		return conflict("Buku masih dipinjam")
	}
	s.books = slices.DeleteFunc(s.books, func(b *catalog.Book) bool { return b.ID == id })
	return nil
}

// ---- students ----

// Students searches students.
func (s *Store) Students(q api.Query) api.Page[api.Student] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.Student
	for _, st := range s.students {
		if q.Search != "" && !contains(st.Nama+" "+st.NIM+" "+st.Email+" "+st.Username, q.Search) {
			continue
		}
		if q.Status != "" && !strings.EqualFold(st.Status, q.Status) {
			continue
		}
		out = append(out, *st)
	}
	sortBy(out, q, map[string]func(api.Student) string{
		"nama":    func(st api.Student) string { return st.Nama },
		"nim":     func(st api.Student) string { return st.NIM },
		"jurusan": func(st api.Student) string { return st.Jurusan },
	})
	return paginate(out, q)
}

// Student returns one student.
func (s *Store) Student(id api.ID) (api.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st := s.studentByID(id); st != nil {
		return *st, nil
	}
	return api.Student{}, notFound("Mahasiswa tidak ditemukan")
}

// CreateStudent registers a student and its login account.
func (s *Store) CreateStudent(in api.NewStudent) (api.Student, error) {
	switch {
	case strings.TrimSpace(in.Nama) == "", strings.TrimSpace(in.NIM) == "":
		return api.Student{}, badRequest("Nama dan NIM wajib diisi")
	case strings.TrimSpace(in.Username) == "", in.Password == "":
		return api.Student{}, badRequest("Username dan password wajib diisi")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, in.Username) {
			return api.Student{}, conflict("Username sudah dipakai")
		}
	}
	for _, st := range s.students {
		if st.NIM == in.NIM {
			return api.Student{}, conflict("NIM sudah terdaftar")
		}
	}
	st := &api.Student{
		ID:          newID(),
		Nama:        in.Nama,
		NIM:         in.NIM,
		Jurusan:     in.Jurusan,
		Alamat:      in.Alamat,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Username:    in.Username,
		Role:        RoleUser,
		Status:      api.StudentActive,
		CreatedAt:   s.stamp(),
	}
	a, err := s.addAccount(in.Username, in.Email, in.Password, RoleUser, st.ID)
	if err != nil {
		return api.Student{}, err
	}
	st.UserID = a.ID
	s.students = append(s.students, st)
	return *st, nil
}

// UpdateStudent edits the non-empty fields of in.
func (s *Store) UpdateStudent(in api.StudentUpdate) (api.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.studentByID(in.ID)
	if st == nil {
		return api.Student{}, notFound("Mahasiswa tidak ditemukan")
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&st.Nama, in.Nama)
	set(&st.NIM, in.NIM)
	set(&st.Jurusan, in.Jurusan)
	set(&st.Alamat, in.Alamat)
	set(&st.PhoneNumber, in.PhoneNumber)
	set(&st.Status, in.Status)
	return *st, nil
}

// DeleteStudent removes a student and its account. userID may also be the
// student id.
func (s *Store) DeleteStudent(userID api.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.students, func(st *api.Student) bool {
		return st.UserID == userID || st.ID == userID
	})
	if idx < 0 {
		return notFound("Mahasiswa tidak ditemukan")
	}
	st := s.students[idx]
	for _, l := range s.loans {
		if l.StudentID == st.ID && isOut(l.Status()) {
			return conflict("Mahasiswa masih memiliki peminjaman aktif")
		}
	}
	s.students = slices.Delete(s.students, idx, idx+1)
	s.accounts = slices.DeleteFunc(s.accounts, func(a *account) bool { return a.ID == st.UserID })
	return nil
}

// ---- loans ----

func (s *Store) loanByID(id api.ID) *loan.Loan {
	for _, l := range s.loans {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// loanView fills in the denormalised book and borrower fields.
func (s *Store) loanView(l *loan.Loan) loan.Loan {
	out := *l
	if b := s.bookByID(l.BookID); b != nil {
		out.BookTitle, out.BookAuthor, out.Publisher, out.ISBN = b.Title, b.Author, b.Publisher, b.ISBN
		out.ShelfLocation = b.Location()
		if c := s.categoryByID(b.CategoryID); c != nil {
			out.CategoryName = c.Nama
		}
	}
	if a := s.accountByID(l.UserID); a != nil {
		out.Username, out.Email = a.Username, a.Email
	}
	if st := s.studentByID(l.StudentID); st != nil {
		out.BorrowerName, out.NIM = st.Nama, st.NIM
	}
	return out
}

// Loans searches loans. A non-empty userID restricts to that borrower.
func (s *Store) Loans(q api.Query, userID api.ID) api.Page[loan.Loan] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []loan.Loan
	for _, l := range s.loans {
		if userID != "" && l.UserID != userID {
			continue
		}
		v := s.loanView(l)
		if q.Status != "" && v.Status() != loan.ParseStatus(q.Status) {
			continue
		}
		if q.Search != "" && !contains(v.BookTitle+" "+v.BorrowerName+" "+v.NIM+" "+v.Username, q.Search) {
			continue
		}
		out = append(out, v)
	}
	sortBy(out, q, map[string]func(loan.Loan) string{
		"tanggalPinjam":      func(l loan.Loan) string { return l.LoanDate },
		"tanggalKembali":     func(l loan.Loan) string { return l.ReturnDate },
		"nama":               func(l loan.Loan) string { return l.BorrowerName },
		"judulBuku":          func(l loan.Loan) string { return l.BookTitle },
		"statusBukuPinjaman": func(l loan.Loan) string { return l.LoanStatus },
	})
	return paginate(out, q)
}

// Loan returns one loan. A non-empty userID must own it.
func (s *Store) Loan(id, userID api.ID) (loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := s.loanByID(id)
	if l == nil || (userID != "" && l.UserID != userID) {
		return loan.Loan{}, notFound("Peminjaman tidak ditemukan")
	}
	return s.loanView(l), nil
}

// CreateLoan records a borrow by userID.
func (s *Store) CreateLoan(userID api.ID, req loan.CreateRequest) (loan.Loan, error) {
	from, err := loan.ParseDate(req.LoanDate)
	if err != nil {
		return loan.Loan{}, badRequest("Tanggal pinjam tidak valid")
	}
	due, err := loan.ParseDate(req.DueDate)
	if err != nil || !due.After(from) {
		return loan.Loan{}, badRequest("Tanggal kembali harus setelah tanggal pinjam")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByID(userID)
	if a == nil {
		return loan.Loan{}, notFound("Akun tidak ditemukan")
	}
	b := s.bookByID(req.BookID)
	if b == nil {
		return loan.Loan{}, notFound("Buku tidak ditemukan")
	}
	if s.bookView(b).Status.Status != catalog.Available {
		return loan.Loan{}, badRequest("Stok buku tidak tersedia")
	}
	for _, l := range s.loans {
		if l.UserID == userID && l.BookID == b.ID && isOut(l.Status()) {
			return loan.Loan{}, badRequest("Anda sedang meminjam buku ini")
		}
	}

	l := &loan.Loan{
		ID:           newID(),
		BookID:       b.ID,
		UserID:       userID,
		StudentID:    a.StudentID,
		LoanDate:     loan.FormatDate(from),
		ReturnDate:   loan.FormatDate(due),
		DueDateField: loan.FormatDate(due),
		LoanStatus:   string(loan.StatusBorrowed),
	}
	s.loans = append(s.loans, l)
	return s.loanView(l), nil
}

// RequestReturn is the borrower's return action. In two-step mode it only
// flags the loan for approval.
func (s *Store) RequestReturn(id, userID api.ID) (loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.loanByID(id)
	if l == nil || l.UserID != userID {
		return loan.Loan{}, notFound("Peminjaman tidak ditemukan")
	}
	switch l.Status() {
	case loan.StatusBorrowed, loan.StatusFined:
	case loan.StatusAwaitingApproval:
		return loan.Loan{}, badRequest("Pengembalian sudah diajukan")
	default:
		return loan.Loan{}, badRequest("Peminjaman tidak sedang dipinjam")
	}
	if s.twoStep {
		l.LoanStatus = string(loan.StatusAwaitingApproval)
	} else {
		s.closeLoan(l)
	}
	return s.loanView(l), nil
}

// ApproveReturn closes a loan whose return was requested.
func (s *Store) ApproveReturn(id api.ID) (loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.loanByID(id)
	if l == nil {
		return loan.Loan{}, notFound("Peminjaman tidak ditemukan")
	}
	switch l.Status() {
	case loan.StatusAwaitingApproval, loan.StatusPending:
	default:
		return loan.Loan{}, badRequest("Peminjaman tidak menunggu persetujuan")
	}
	s.closeLoan(l)
	return s.loanView(l), nil
}

func (s *Store) closeLoan(l *loan.Loan) {
	if l.DueDateField == "" {
		l.DueDateField = l.ReturnDate
	}
	l.ReturnDate = s.today()
	l.LoanStatus = string(loan.StatusReturned)
}

// UpdateLoan applies an admin edit.
func (s *Store) UpdateLoan(id api.ID, req loan.UpdateRequest) (loan.Loan, error) {
	if req.Status != "" && !loan.ParseStatus(string(req.Status)).Valid() {
		return loan.Loan{}, badRequest("Status peminjaman tidak valid")
	}
	if req.ReturnDate != "" {
		if _, err := loan.ParseDate(req.ReturnDate); err != nil {
			return loan.Loan{}, badRequest("Tanggal kembali tidak valid")
		}
	}
	if req.Fine != nil && *req.Fine < 0 {
		return loan.Loan{}, badRequest("Denda tidak boleh negatif")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.loanByID(id)
	if l == nil {
		return loan.Loan{}, notFound("Peminjaman tidak ditemukan")
	}
	if l.DueDateField == "" {
		l.DueDateField = l.ReturnDate
	}
	if req.Status != "" {
		st := loan.ParseStatus(string(req.Status))
		if st == loan.StatusReturned && req.ReturnDate == "" {
			l.ReturnDate = s.today()
		}
		l.LoanStatus = string(st)
	}
	if req.ReturnDate != "" {
		l.ReturnDate = req.ReturnDate
	}
	if req.Fine != nil {
		l.Fine = *req.Fine
	}
	if req.Note != nil {
		l.Note = *req.Note
	}
	return s.loanView(l), nil
}

// DeleteLoan removes a loan record.
func (s *Store) DeleteLoan(id api.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loanByID(id) == nil {
		return notFound("Peminjaman tidak ditemukan")
	}
	s.loans = slices.DeleteFunc(s.loans, func(l *loan.Loan) bool { return l.ID == id })
	return nil
}

// SweepOverdue moves every borrowed loan past its due day to DENDA and
// charges the per-day fine. It returns how many loans changed.
func (s *Store) SweepOverdue() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, l := range s.loans {
		if l.Status() != loan.StatusBorrowed {
			continue
		}
		due, ok := l.DueDate()
		if !ok || !loan.IsLate(due, now) {
			continue
		}
		l.LoanStatus = string(loan.StatusFined)
		l.Fine = max(daysLate(due, now), 1) * s.finePerDay
		n++
	}
	return n
}

func daysLate(due, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(math.Round(today.Sub(due).Hours() / 24))
}

// Stats returns the dashboard counters.
func (s *Store) Stats() api.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := 0
	for _, l := range s.loans {
		if isOut(l.Status()) {
			out++
		}
	}
	return api.DashboardStats{
		TotalBuku:       len(s.books),
		TotalMahasiswa:  len(s.students),
		TotalPeminjaman: len(s.loans),
		BukuDipinjam:    out,
	}
}

// seed fills the store with a small demo library.
func (s *Store) seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.addAccount("admin", "admin@perpus.local", "admin123", RoleAdmin, ""); err != nil {
		return err
	}
	students := []api.NewStudent{
		{Nama: "Ani Lestari", NIM: "2101001", Jurusan: "Informatika", Username: "ani", Email: "ani@kampus.local", Password: "ani123"},
		{Nama: "Budi Santoso", NIM: "2101002", Jurusan: "Matematika", Username: "budi", Email: "budi@kampus.local", Password: "budi123"},
	}
	for _, in := range students {
		st := &api.Student{
			ID: newID(), Nama: in.Nama, NIM: in.NIM, Jurusan: in.Jurusan, Email: in.Email,
			Username: in.Username, Role: RoleUser, Status: api.StudentActive, CreatedAt: s.stamp(),
		}
		a, err := s.addAccount(in.Username, in.Email, in.Password, RoleUser, st.ID)
		if err != nil {
			return err
		}
		st.UserID = a.ID
		s.students = append(s.students, st)
	}

	inf := &api.Category{ID: newID(), Nama: "Informatika", CreatedAt: s.stamp()}
	mat := &api.Category{ID: newID(), Nama: "Matematika", CreatedAt: s.stamp()}
	s.categories = append(s.categories, inf, mat)

	add := func(title, author, publisher string, year, copies int, cat *api.Category, floor, shelf string) *catalog.Book {
		b := &catalog.Book{
			ID: newID(), Title: title, Author: author, Publisher: publisher, Year: year,
			ISBN: "978-602-" + strconv.Itoa(1000+len(s.books)), CategoryID: cat.ID, CopyCount: copies,
			Status: catalog.StatusRef{Status: catalog.Available}, Floor: floor, Room: "Ruang Baca", Shelf: shelf,
			CreatedAt: s.stamp(),
		}
		s.books = append(s.books, b)
		return b
	}
	add("Pemrograman Go", "Alan Donovan", "Gramedia", 2016, 3, inf, "Lantai 2", "Rak A")
	add("Struktur Data", "Rinaldi Munir", "Informatika Bandung", 2019, 2, inf, "Lantai 2", "Rak B")
	add("Kalkulus Jilid 1", "Purcell", "Erlangga", 2010, 1, mat, "Lantai 1", "Rak C")
	add("Aljabar Linear", "Anton", "Erlangga", 2014, 0, mat, "Lantai 1", "Rak C")
	basis := add("Basis Data", "Fathansyah", "Informatika Bandung", 2018, 2, inf, "Lantai 2", "Rak B")

	// One loan already past due, so the sweep has something to do.
	borrowed := s.now().AddDate(0, 0, -(loan.LoanPeriodDays + 3))
	due := loan.DueDate(borrowed)
	budi := s.students[1]
	s.loans = append(s.loans, &loan.Loan{
		ID:           newID(),
		BookID:       basis.ID,
		UserID:       budi.UserID,
		StudentID:    budi.ID,
		LoanDate:     loan.FormatDate(borrowed),
		ReturnDate:   loan.FormatDate(due),
		DueDateField: loan.FormatDate(due),
		LoanStatus:   string(loan.StatusBorrowed),
	})
	return nil
}
