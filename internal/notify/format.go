package notify

import "strings"

// Action 触发通知的操作
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionUpload Action = "upload"
	ActionFetch  Action = "fetch"
)

// Entity 通知涉及的实体类型
type Entity string

const (
	EntityProduct  Entity = "product"
	EntityVariant  Entity = "variant"
	EntityCategory Entity = "category"
	EntityUnit     Entity = "unit"
	EntityTag      Entity = "tag"
	EntityCustomer Entity = "customer"
	EntitySettings Entity = "settings"
	EntityImage    Entity = "image"
)

// Message 格式化后的通知文本
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type messageKey struct {
	kind   Kind
	action Action
	entity Entity
}

var titles = map[Kind]string{
	KindSuccess: "Berhasil",
	KindError:   "Gagal",
	KindWarning: "Perhatian",
	KindInfo:    "Informasi",
}

var genericMessages = map[Kind]string{
	KindSuccess: "Operasi berhasil dilakukan.",
	KindError:   "Terjadi kesalahan. Silakan coba lagi.",
	KindWarning: "Periksa kembali data yang Anda masukkan.",
	KindInfo:    "Ada informasi baru untuk Anda.",
}

var entityLabels = map[Entity]string{
	EntityProduct:  "Produk",
	EntityVariant:  "Varian",
	EntityCategory: "Kategori",
	EntityUnit:     "Satuan",
	EntityTag:      "Tag",
	EntityCustomer: "Pelanggan",
	EntitySettings: "Pengaturan",
	EntityImage:    "Gambar",
}

// messages 按 (类型, 操作, 实体) 查表，未命中回退到通用文案
var messages = buildMessages()

func buildMessages() map[messageKey]string {
	table := make(map[messageKey]string)
	crud := []Entity{EntityProduct, EntityVariant, EntityCategory, EntityUnit, EntityTag, EntityCustomer}
	for _, entity := range crud {
		label := entityLabels[entity]
		table[messageKey{KindSuccess, ActionCreate, entity}] = label + " berhasil ditambahkan."
		table[messageKey{KindSuccess, ActionUpdate, entity}] = label + " berhasil diperbarui."
		table[messageKey{KindSuccess, ActionDelete, entity}] = label + " berhasil dihapus."
		table[messageKey{KindError, ActionCreate, entity}] = "Gagal menambahkan " + strings.ToLower(label) + "."
		table[messageKey{KindError, ActionUpdate, entity}] = "Gagal memperbarui " + strings.ToLower(label) + "."
		table[messageKey{KindError, ActionDelete, entity}] = "Gagal menghapus " + strings.ToLower(label) + "."
		table[messageKey{KindError, ActionFetch, entity}] = label + " tidak ditemukan."
	}
	table[messageKey{KindSuccess, ActionUpdate, EntitySettings}] = "Pengaturan berhasil disimpan."
	table[messageKey{KindError, ActionUpdate, EntitySettings}] = "Gagal menyimpan pengaturan."
	table[messageKey{KindError, ActionFetch, EntitySettings}] = "Gagal memuat pengaturan."
	table[messageKey{KindSuccess, ActionUpload, EntityImage}] = "Gambar berhasil diunggah."
	table[messageKey{KindError, ActionUpload, EntityImage}] = "Gagal mengunggah gambar."
	table[messageKey{KindWarning, ActionCreate, EntityProduct}] = "Lengkapi data produk sebelum menyimpan."
	table[messageKey{KindWarning, ActionUpdate, EntityProduct}] = "Lengkapi data produk sebelum menyimpan."
	return table
}

// Title 通知标题，只取决于类型
func Title(kind Kind) string {
	if title, ok := titles[kind]; ok {
		return title
	}
	return titles[KindInfo]
}

// Format 生成通知标题与正文
// custom 非空时原样作为正文；否则查 (kind, action, entity) 表，未命中使用通用文案
func Format(kind Kind, action Action, entity Entity, custom string) Message {
	result := Message{Title: Title(kind)}
	if custom != "" {
		result.Message = custom
		return result
	}
	if action != "" && entity != "" {
		if text, ok := messages[messageKey{kind, action, entity}]; ok {
			result.Message = text
			return result
		}
	}
	if text, ok := genericMessages[kind]; ok {
		result.Message = text
	} else {
		result.Message = genericMessages[KindInfo]
	}
	return result
}

// Notify 格式化后直接投递
func Notify(n Notifier, kind Kind, action Action, entity Entity, custom string) string {
	if n == nil {
		return ""
	}
	msg := Format(kind, action, entity, custom)
	switch kind {
	case KindSuccess:
		return n.Success(msg.Title, msg.Message)
	case KindError:
		return n.Error(msg.Title, msg.Message)
	case KindWarning:
		return n.Warning(msg.Title, msg.Message)
	default:
		return n.Info(msg.Title, msg.Message)
	}
}
