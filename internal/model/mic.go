package model

import (
	"time"

	"github.com/google/uuid"
)

// MICCampos holds the numbered MIC/DTA fields. Field names and types match
// dto.MICFields so the two convert directly.
type MICCampos struct {
	Campo1Transporte       string `gorm:"column:campo_1_transporte"`
	Campo2Numero           string `gorm:"column:campo_2_numero"`
	Campo3Transporte       string `gorm:"column:campo_3_transporte"`
	Campo4Estado           string `gorm:"column:campo_4_estado"`
	Campo5Hoja             string `gorm:"column:campo_5_hoja"`
	Campo6Fecha            string `gorm:"column:campo_6_fecha"`
	Campo7PtoSeguro        string `gorm:"column:campo_7_pto_seguro"`
	Campo8Destino          string `gorm:"column:campo_8_destino"`
	Campo9DatosTransporte  string `gorm:"column:campo_9_datos_transporte"`
	Campo10Numero          string `gorm:"column:campo_10_numero"`
	Campo11Placa           string `gorm:"column:campo_11_placa"`
	Campo12ModeloChasis    string `gorm:"column:campo_12_modelo_chasis"`
	Campo13Siempre45       string `gorm:"column:campo_13_siempre_45"`
	Campo14Anio            string `gorm:"column:campo_14_anio"`
	Campo15PlacaSemi       string `gorm:"column:campo_15_placa_semi"`
	Campo16Asteriscos1     string `gorm:"column:campo_16_asteriscos_1"`
	Campo17Asteriscos2     string `gorm:"column:campo_17_asteriscos_2"`
	Campo18Asteriscos3     string `gorm:"column:campo_18_asteriscos_3"`
	Campo19Asteriscos4     string `gorm:"column:campo_19_asteriscos_4"`
	Campo20Asteriscos5     string `gorm:"column:campo_20_asteriscos_5"`
	Campo21Asteriscos6     string `gorm:"column:campo_21_asteriscos_6"`
	Campo22Asteriscos7     string `gorm:"column:campo_22_asteriscos_7"`
	Campo23NumeroCampo2CRT string `gorm:"column:campo_23_numero_campo2_crt"`
	Campo24Aduana          string `gorm:"column:campo_24_aduana"`
	Campo25Moneda          string `gorm:"column:campo_25_moneda"`
	Campo26Pais            string `gorm:"column:campo_26_pais"`
	Campo27ValorCampo16    string `gorm:"column:campo_27_valor_campo16"`
	Campo28Total           string `gorm:"column:campo_28_total"`
	Campo29Seguro          string `gorm:"column:campo_29_seguro"`
	Campo30TipoBultos      string `gorm:"column:campo_30_tipo_bultos"`
	Campo31Cantidad        string `gorm:"column:campo_31_cantidad"`
	Campo32PesoBruto       string `gorm:"column:campo_32_peso_bruto"`
	Campo33DatosCampo1CRT  string `gorm:"column:campo_33_datos_campo1_crt"`
	Campo34DatosCampo4CRT  string `gorm:"column:campo_34_datos_campo4_crt"`
	Campo35DatosCampo6CRT  string `gorm:"column:campo_35_datos_campo6_crt"`
	Campo36FacturaDespacho string `gorm:"column:campo_36_factura_despacho"`
	Campo37ValorManual     string `gorm:"column:campo_37_valor_manual"`
	Campo38DatosCampo11CRT string `gorm:"column:campo_38_datos_campo11_crt"`
	Campo39                string `gorm:"column:campo_39"`
	Campo40Tramo           string `gorm:"column:campo_40_tramo"`
	Chofer                 string `gorm:"column:chofer"`
}

// MICGuardado is a stored MIC/DTA manifest issued from a CRT.
type MICGuardado struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CRTID     uuid.UUID `gorm:"type:uuid;index;not null"`
	MICCampos `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time

	CRT *CRT `gorm:"foreignKey:CRTID"`
}

func (MICGuardado) TableName() string { return "mic_guardados" }
