package shared

// 接口层提示文案
const (
	MsgBadRequest         = "Permintaan tidak valid."
	MsgSessionMissing     = "Sesi tidak ditemukan. Silakan masuk kembali."
	MsgForbidden          = "Anda tidak memiliki akses untuk tindakan ini."
	MsgFormNotFound       = "Formulir tidak ditemukan atau sudah ditutup."
	MsgFormClosed         = "Formulir sudah ditutup."
	MsgSubmitInProgress   = "Formulir sedang dikirim. Mohon tunggu."
	MsgUnknownEntity      = "Jenis data tidak dikenal."
	MsgUnknownField       = "Kolom formulir tidak dikenal."
	MsgFieldValue         = "Nilai kolom tidak valid."
	MsgLastVariant        = "Produk harus memiliki minimal satu varian."
	MsgVariantIndex       = "Varian tidak ditemukan."
	MsgNotProductForm     = "Aksi ini hanya berlaku untuk formulir produk."
	MsgFormNotLoaded      = "Data formulir belum berhasil dimuat."
	MsgNotificationAbsent = "Notifikasi tidak ditemukan."
	MsgJournalUnavailable = "Riwayat pengiriman tidak tersedia."
	MsgAuthzUnavailable   = "Layanan hak akses tidak tersedia."
	MsgTooManyRequests    = "Terlalu banyak percobaan. Coba lagi dalam %d detik."
	MsgRateLimitDown      = "Pembatas permintaan tidak tersedia."
	MsgImageRequired      = "Pilih gambar yang akan diunggah."
	MsgImageTooLarge      = "Ukuran gambar maksimal 5MB."
)
