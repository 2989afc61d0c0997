package models

// User facing messages. The API speaks Vietnamese to its clients.
const (
	MsgLoginRequired      = "Yêu cầu đăng nhập."
	MsgAdminRequired      = `Vui lòng đăng nhập tài khoản "Quản trị viên" để thực hiện.`
	MsgForbidden          = "Bạn không có quyền thực hiện"
	MsgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không chính xác"
	MsgAccountBlocked     = "Tài khoản đã bị khóa"
	MsgUserExists         = "Tên đăng nhập hoặc email đã tồn tại"
	MsgUserNotFound       = "Không tìm thấy người dùng"
	MsgWrongPassword      = "Mật khẩu hiện tại không chính xác"
	MsgTooManyRequests    = "Quá nhiều yêu cầu, vui lòng thử lại sau"
	MsgInvalidRequest     = "Dữ liệu không hợp lệ"
	MsgInternal           = "Lỗi hệ thống"
	MsgSuccess            = "Thành công"

	MsgArticleNotFound     = "Không tìm thấy bài viết"
	MsgArticleFieldsNeeded = "Các trường tiêu đề, nội dung, và đường dẫn là bắt buộc"
	MsgSlugExists          = "Đường dẫn đã tồn tại"
	MsgSlugNumeric         = "Đường dẫn không được chỉ gồm chữ số"
	MsgImageRequired       = "Vui lòng chọn ảnh đại diện cho bài viết"
	MsgInvalidImage        = "Ảnh không hợp lệ"
	MsgCategoryRequired    = "Vui lòng chọn ít nhất 1 chuyên mục"
	MsgCategoryInvalid     = "Chuyên mục không tồn tại"
	MsgArticleCreated      = "Thêm bài viết thành công"
	MsgArticleUpdated      = "Cập nhật bài viết thành công"
	MsgArticleDrafted      = "Lưu bản nháp bài viết thành công"
	MsgArticleApproved     = "Đã duyệt bài viết thành công"
	MsgArticleAlreadyPub   = "Bài viết đã được duyệt, không thể từ chối"
	MsgArticleCannotPub    = "Bài viết không ở trạng thái chờ duyệt"
	MsgArticleNotPending   = "Chỉ có thể từ chối bài viết đang chờ duyệt"
	MsgRejectReasonNeeded  = "Vui lòng nhập lý do từ chối"
	MsgArticleRejected     = "Bài viết đã bị từ chối"
	MsgArticleDeleted      = "Xóa bài viết thành công"

	MsgCategoryNotFound = "Không tìm thấy chuyên mục"
	MsgCategoryExists   = "Chuyên mục đã tồn tại"

	MsgCommentNotFound = "Không tìm thấy bình luận"
	MsgCommentRequired = "Nội dung bình luận là bắt buộc"
	MsgLiked           = "Đã thích bài viết"
	MsgUnliked         = "Đã bỏ thích bài viết"

	MsgFollowed   = "Đã theo dõi thành công"
	MsgUnfollowed = "Đã hủy theo dõi"
	MsgFollowSelf = "Không thể tự theo dõi chính mình"

	MsgNotificationNotFound = "Thông báo không tồn tại"
	MsgNoNotifications      = "Không có thông báo nào để xóa"
	MsgNotificationDeleted  = "Xóa thông báo thành công"
)
