package devserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func param(c *gin.Context) api.ID { return api.ID(c.Param("id")) }

// ---- books ----

func (s *Server) findBooks(c *gin.Context) {
	ok(c, "Berhasil", s.store.Books(bindQuery(c)))
}

func (s *Server) findBook(c *gin.Context) {
	b, err := s.store.Book(param(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", b)
}

func (s *Server) bookStatus(c *gin.Context) {
	st, err := s.store.LiveStatus(param(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", st)
}

func (s *Server) saveBook(c *gin.Context) {
	var in catalog.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Data buku tidak valid")
		return
	}
	b, err := s.store.SaveBook(in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Buku disimpan", b)
}

func (s *Server) deleteBook(c *gin.Context) {
	if err := s.store.DeleteBook(param(c)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Buku dihapus", nil)
}

// ---- categories ----

func (s *Server) listCategories(c *gin.Context) {
	q := api.Query{PageNumber: 1, PageSize: 1000}
	ok(c, "Berhasil", s.store.Categories(q).Content)
}

func (s *Server) findCategories(c *gin.Context) {
	ok(c, "Berhasil", s.store.Categories(bindQuery(c)))
}

func (s *Server) findCategory(c *gin.Context) {
	var body struct {
		ID api.ID `json:"id"`
	}
	_ = c.ShouldBindJSON(&body)
	cat, err := s.store.Category(body.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", cat)
}

func (s *Server) saveCategory(c *gin.Context) {
	var in api.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Data kategori tidak valid")
		return
	}
	cat, err := s.store.SaveCategory(in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Kategori disimpan", cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.store.DeleteCategory(param(c)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Kategori dihapus", nil)
}

// ---- students ----

func (s *Server) findStudents(c *gin.Context) {
	ok(c, "Berhasil", s.store.Students(bindQuery(c)))
}

func (s *Server) findStudent(c *gin.Context) {
	st, err := s.store.Student(param(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", st)
}

func (s *Server) createStudent(c *gin.Context) {
	var in api.NewStudent
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Data mahasiswa tidak valid")
		return
	}
	st, err := s.store.CreateStudent(in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Mahasiswa ditambahkan", st)
}

func (s *Server) updateStudent(c *gin.Context) {
	var in api.StudentUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Data mahasiswa tidak valid")
		return
	}
	st, err := s.store.UpdateStudent(in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Mahasiswa diperbarui", st)
}

func (s *Server) deleteStudent(c *gin.Context) {
	if err := s.store.DeleteStudent(param(c)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Mahasiswa dihapus", nil)
}

// ---- loans ----

func (s *Server) createLoan(c *gin.Context) {
	var req loan.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == "" {
		fail(c, http.StatusBadRequest, "Data peminjaman tidak valid")
		return
	}
	l, err := s.store.CreateLoan(userID(c), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Peminjaman berhasil", l)
}

func (s *Server) myLoans(c *gin.Context) {
	ok(c, "Berhasil", s.store.Loans(bindQuery(c), userID(c)))
}

func (s *Server) myLoan(c *gin.Context) {
	l, err := s.store.Loan(param(c), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", l)
}

func (s *Server) requestReturn(c *gin.Context) {
	l, err := s.store.RequestReturn(param(c), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	msg := "Buku dikembalikan"
	if l.Status() == loan.StatusAwaitingApproval {
		msg = "Pengembalian diajukan, menunggu persetujuan admin"
	}
	ok(c, msg, l)
}

func (s *Server) allLoans(c *gin.Context) {
	ok(c, "Berhasil", s.store.Loans(bindQuery(c), ""))
}

func (s *Server) recentLoans(c *gin.Context) {
	q := bindQuery(c)
	if q.SortColumn == "" {
		q.SortColumn, q.SortColumnDir = "tanggalPinjam", api.SortDesc
	}
	ok(c, "Berhasil", s.store.Loans(q, ""))
}

func (s *Server) anyLoan(c *gin.Context) {
	l, err := s.store.Loan(param(c), "")
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", l)
}

func (s *Server) editLoan(c *gin.Context) {
	var req loan.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Data peminjaman tidak valid")
		return
	}
	l, err := s.store.UpdateLoan(param(c), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Peminjaman diperbarui", l)
}

func (s *Server) approveReturn(c *gin.Context) {
	l, err := s.store.ApproveReturn(param(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Pengembalian disetujui", l)
}

func (s *Server) deleteLoan(c *gin.Context) {
	if err := s.store.DeleteLoan(param(c)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Peminjaman dihapus", nil)
}

func (s *Server) checkOverdue(c *gin.Context) {
	n := s.store.SweepOverdue()
	msg := "Tidak ada peminjaman terlambat"
	if n > 0 {
		msg = fmt.Sprintf("%d peminjaman diperbarui menjadi DENDA", n)
	}
	ok(c, msg, gin.H{"updated": n, "message": msg})
}

// ---- dashboard & profile ----

func (s *Server) stats(c *gin.Context) {
	ok(c, "Berhasil", s.store.Stats())
}

func (s *Server) profile(c *gin.Context) {
	p, err := s.store.Profile(userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, "Berhasil", p)
}
